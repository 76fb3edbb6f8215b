package domain

// Parameter is one declared parameter of a domain action. Types holds more than
// one name for an either-type.
type Parameter struct {
	Name  string   `json:"name" yaml:"name"`
	Types []string `json:"types" yaml:"types"`
}
