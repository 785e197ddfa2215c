package services

import (
	"fmt"
	"strings"

	"marina-frontdesk/internal/models"
)

func BuildSystemPrompt(profile models.HotelProfile) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("You are a warm, professional hotel receptionist at %s, %s. ", profile.Name, profile.Description))
	b.WriteString("You greet guests politely, help with room reservations, local attractions, ")
	b.WriteString(fmt.Sprintf("check-in/check-out information, and answer general questions about the hotel or %s. ", profile.City))
	b.WriteString("Keep your tone friendly, concise, and helpful, as if speaking to an international guest. ")
	b.WriteString("Use a touch of hospitality language, but avoid being overly formal.")

	if persona := strings.TrimSpace(profile.Persona); persona != "" {
		b.WriteString("\n\n")
		b.WriteString(persona)
	}

	return b.String()
}

func roomImagePrompt(room string) string {
	return fmt.Sprintf("A photorealistic interior photo of the %s at a luxury hotel, warm natural light, tidy and inviting.", room)
}
