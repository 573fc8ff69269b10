package writeup

import "encoding/json"

type jsonBlock struct {
	Key   int      `json:"key"`
	Type  Kind     `json:"type"`
	Level int      `json:"level,omitempty"`
	Text  string   `json:"text,omitempty"`
	HTML  string   `json:"html,omitempty"`
	Items []string `json:"items,omitempty"`
}

// MarshalJSON encodes the document as an array of tagged block objects.
func (d Document) MarshalJSON() ([]byte, error) {
	out := make([]jsonBlock, 0, len(d))
	for _, b := range d {
		jb := jsonBlock{Key: b.Index(), Type: b.Kind()}
		switch v := b.(type) {
		case Heading:
			jb.Level, jb.Text = v.Level, v.Text
		case Paragraph:
			jb.HTML = v.HTML
		case List:
			jb.Items = v.Items
		case CodeBlock:
			jb.Text = v.Text
		}
		out = append(out, jb)
	}
	return json.Marshal(out)
}
