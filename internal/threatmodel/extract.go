package threatmodel

// Extract returns the threats of doc in document order.
//
// A top-level "threats" field always wins, even when the diagram also carries
// threats. Without it, threats are collected from diagram.components[*].threats.
// A document matching neither shape has no threats.
func Extract(doc Document) []Threat {
	if list, ok := doc["threats"]; ok {
		return threatList(list)
	}

	diagram, _ := asMap(doc["diagram"])
	components, _ := asSlice(diagram["components"])

	var threats []Threat
	for _, item := range components {
		component, ok := asMap(item)
		if !ok {
			continue
		}
		threats = append(threats, threatList(component["threats"])...)
	}
	return threats
}

// threatList converts a raw sequence into threats. Items that are not
// mappings still count as threats and carry no fields.
func threatList(value interface{}) []Threat {
	items, ok := asSlice(value)
	if !ok {
		return nil
	}

	threats := make([]Threat, 0, len(items))
	for _, item := range items {
		fields, ok := asMap(item)
		if !ok {
			fields = map[string]interface{}{}
		}
		threats = append(threats, Threat(fields))
	}
	return threats
}
