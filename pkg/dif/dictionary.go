package dif

// Property is one key/value pair of a Dictionary.
type Property struct {
	Key   string
	Value string
}

// Dictionary is an ordered property list. Insertion order is kept and
// duplicate keys are allowed; the engine applies pairs in order.
type Dictionary []Property

// Add appends a pair.
func (d *Dictionary) Add(key, value string) {
	*d = append(*d, Property{Key: key, Value: value})
}

// Get returns the value of the first pair with key.
func (d Dictionary) Get(key string) (string, bool) {
	for _, p := range d {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Clone returns an independent copy.
func (d Dictionary) Clone() Dictionary {
	if d == nil {
		return nil
	}
	out := make(Dictionary, len(d))
	copy(out, d)
	return out
}
