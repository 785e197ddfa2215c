package models

// HotelProfile shapes the receptionist persona.
type HotelProfile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	City        string `yaml:"city"`
	Persona     string `yaml:"persona"` // extra instructions appended to the system prompt
}

func DefaultHotelProfile() HotelProfile {
	return HotelProfile{
		Name:        "Marina Vista Hotel",
		Description: "a luxury hotel located in Singapore's Marina Bay area",
		City:        "Singapore",
	}
}
