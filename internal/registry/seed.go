package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"example.com/activityregistry/internal/domain"
)

// DefaultSeed returns the built-in activity catalog.
func DefaultSeed() map[string]domain.Activity {
	return map[string]domain.Activity{
		"Chess Club": {
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		"Programming Class": {
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		"Gym Class": {
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
		"Soccer Club": {
			Description:     "Outdoor soccer training, drills and weekend matches",
			Schedule:        "Saturdays, 10:00 AM - 12:00 PM",
			MaxParticipants: 22,
			Participants:    []string{"liam@mergington.edu", "noah@mergington.edu"},
		},
		"Basketball Team": {
			Description:     "Competitive basketball practices and interschool games",
			Schedule:        "Mondays and Thursdays, 5:00 PM - 7:00 PM",
			MaxParticipants: 15,
			Participants:    []string{"ava@mergington.edu", "isabella@mergington.edu"},
		},
		"Art Club": {
			Description:     "Explore drawing, painting, and mixed media projects",
			Schedule:        "Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"mia@mergington.edu", "charlotte@mergington.edu"},
		},
		"Drama Club": {
			Description:     "Acting workshops, rehearsals and school productions",
			Schedule:        "Fridays, 4:00 PM - 6:00 PM",
			MaxParticipants: 25,
			Participants:    []string{"amelia@mergington.edu", "harper@mergington.edu"},
		},
		"Debate Team": {
			Description:     "Practice public speaking, argumentation and competitive debates",
			Schedule:        "Thursdays, 6:00 PM - 7:30 PM",
			MaxParticipants: 16,
			Participants:    []string{"elijah@mergington.edu", "logan@mergington.edu"},
		},
		"Science Club": {
			Description:     "Hands-on experiments, science fairs and research projects",
			Schedule:        "Tuesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 18,
			Participants:    []string{"lucas@mergington.edu", "zoe@mergington.edu"},
		},
	}
}

type seedDocument struct {
	Activities map[string]domain.Activity `yaml:"activities"`
}

// ParseSeed decodes a YAML catalog of the form
//
//	activities:
//	  Chess Club:
//	    description: ...
//	    schedule: ...
//	    max_participants: 12
//	    participants: [michael@mergington.edu]
func ParseSeed(data []byte) (map[string]domain.Activity, error) {
	var doc seedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if len(doc.Activities) == 0 {
		return nil, fmt.Errorf("seed contains no activities")
	}
	for name, activity := range doc.Activities {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("seed contains an activity with an empty name")
		}
		if err := activity.Validate(); err != nil {
			return nil, fmt.Errorf("activity %q: %w", name, err)
		}
	}
	return doc.Activities, nil
}

// LoadSeedFile reads and parses a YAML catalog from path.
func LoadSeedFile(path string) (map[string]domain.Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}
