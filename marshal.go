package jsonvalue

// MarshalJSON renders the value compactly, so trees can be embedded in
// structs handled by any JSON encoder.
func (v Value) MarshalJSON() ([]byte, error) {
	return Serialize(&v)
}

// UnmarshalJSON replaces v with the parsed tree, applying default options.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
