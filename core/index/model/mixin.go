package model

type AttributesMixin struct {
	attributes map[string]string
}

/* Get a codec attribute value, or "" if it does not exist */
func (m *AttributesMixin) Attribute(key string) string {
	if m.attributes == nil {
		return ""
	}
	return m.attributes[key]
}

/*
Puts a codec attribute value. This is a key-value mapping for the
field that the codec can use to store additional metadata, and will
be available to the codec when reading the segment. Returns the
previous value, or "".
*/
func (m *AttributesMixin) PutAttribute(key, value string) string {
	if m.attributes == nil {
		m.attributes = make(map[string]string)
	}
	prev := m.attributes[key]
	m.attributes[key] = value
	return prev
}

/* Returns the internal codec attributes map. */
func (m *AttributesMixin) Attributes() map[string]string {
	return m.attributes
}
