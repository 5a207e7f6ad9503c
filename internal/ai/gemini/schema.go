package gemini

import (
	"google.golang.org/genai"

	"github.com/spigell/career-companion/internal/contracts"
)

// toGenaiSchema converts a contract schema into the Gemini response schema.
func toGenaiSchema(s *contracts.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
	}

	switch s.Type {
	case contracts.TypeObject:
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for _, p := range s.Properties {
			out.Properties[p.Name] = toGenaiSchema(p.Schema)
		}
		out.Required = s.Required()
	case contracts.TypeArray:
		out.Items = toGenaiSchema(s.Items)
	case contracts.TypeInteger:
		if s.Minimum != nil {
			v := float64(*s.Minimum)
			out.Minimum = &v
		}
		if s.Maximum != nil {
			v := float64(*s.Maximum)
			out.Maximum = &v
		}
	}

	if len(s.Enum) > 0 {
		out.Enum = append([]string(nil), s.Enum...)
	}

	return out
}

func genaiType(t contracts.Type) genai.Type {
	switch t {
	case contracts.TypeObject:
		return genai.TypeObject
	case contracts.TypeArray:
		return genai.TypeArray
	case contracts.TypeInteger:
		return genai.TypeInteger
	default:
		return genai.TypeString
	}
}
