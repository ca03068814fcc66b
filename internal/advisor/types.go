package advisor

// Tip is one structured piece of financial advice.
type Tip struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"` // ahorro | inversion | gasto
}

// tipsPayload is the JSON document the model is asked to produce.
type tipsPayload struct {
	Tips []Tip `json:"tips"`
}

// generateRequest is the Gemini generateContent request body.
type generateRequest struct {
	SystemInstruction *content          `json:"system_instruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

// generateResponse is the subset of the Gemini response we read.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	out := ""
	for _, p := range r.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out
}
