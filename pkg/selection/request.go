package selection

// Attribute is one sub-selection as the generation backend reads it.
// Forced chips carry the "!" prefix in ElementosSeleccionados.
type Attribute struct {
	ElementosSeleccionados []string `json:"elementosSeleccionados"`
	Rango                  Range    `json:"rango"`
}

// SchemeRequest is the per (node, scheme) entry of the generation payload.
type SchemeRequest struct {
	Atributos   map[string][]Attribute `json:"atributos"`
	Ubicaciones []LocationSet          `json:"ubicaciones"`
}

// Dictionary maps node -> scheme -> request.
type Dictionary map[string]map[string]SchemeRequest

// BuildDictionary serializes saved selections into the generation payload.
// It goes through Aggregate so the submitted locations are exactly the ones
// shown in the grouped rows.
func BuildDictionary(selections []Selection) Dictionary {
	dict := make(Dictionary)
	for _, g := range Aggregate(selections) {
		schemes, ok := dict[g.Node]
		if !ok {
			schemes = make(map[string]SchemeRequest)
			dict[g.Node] = schemes
		}

		req := SchemeRequest{
			Atributos:   make(map[string][]Attribute, len(g.Properties)),
			Ubicaciones: g.LocationSets,
		}
		for _, sub := range g.SubSelections {
			req.Atributos[sub.Property] = append(req.Atributos[sub.Property], NewAttribute(sub.Chips, sub.Range))
		}
		schemes[g.Scheme] = req
	}
	return dict
}

// NewAttribute encodes chips for the backend.
func NewAttribute(chips []Chip, r Range) Attribute {
	labels := make([]string, len(chips))
	for i, c := range chips {
		labels[i] = EncodeChipLabel(c)
	}
	return Attribute{ElementosSeleccionados: labels, Rango: r}
}

// DecodeAttribute is the inverse of NewAttribute.
func DecodeAttribute(a Attribute) ([]Chip, Range) {
	chips := make([]Chip, len(a.ElementosSeleccionados))
	for i, l := range a.ElementosSeleccionados {
		chips[i] = DecodeChipLabel(l)
	}
	return chips, a.Rango
}
