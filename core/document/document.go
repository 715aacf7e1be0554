package document

/*
Documents are the unit of indexing.

A Document is a set of fields. Each field has a name and a value that
is stored per document as a doc value. Several fields may share a
name: sorted set fields rely on that to carry more than one value.
*/
type Document struct {
	fields []IndexableField
}

/* Constructs a new document with no fields. */
func NewDocument() *Document {
	return &Document{make([]IndexableField, 0)}
}

func (doc *Document) Fields() []IndexableField {
	return doc.fields
}

/*
Adds a field to a document. Several fields may be added with the same
name. Returns the document for chaining.
*/
func (doc *Document) Add(fields ...IndexableField) *Document {
	doc.fields = append(doc.fields, fields...)
	return doc
}

/* Returns the first field with the given name, or nil. */
func (doc *Document) GetField(name string) IndexableField {
	for _, field := range doc.fields {
		if field.Name() == name {
			return field
		}
	}
	return nil
}

/* Returns all fields with the given name, in insertion order. */
func (doc *Document) GetFields(name string) []IndexableField {
	var ans []IndexableField
	for _, field := range doc.fields {
		if field.Name() == name {
			ans = append(ans, field)
		}
	}
	return ans
}

/*
Returns the string value of the first field with the given name that
has a binary value, or "" if none exists.
*/
func (doc *Document) Get(name string) string {
	for _, field := range doc.fields {
		if field.Name() == name && field.BinaryValue() != nil {
			return string(field.BinaryValue())
		}
	}
	return ""
}

func (doc *Document) String() string {
	s := "Document<"
	for i, field := range doc.fields {
		if i > 0 {
			s += " "
		}
		s += field.String()
	}
	return s + ">"
}
