package field

// AttributeParams configures an Attribute.
type AttributeParams struct {
	PropertyParams
	// DoNotPersist excludes the attribute from saved payloads.
	DoNotPersist bool
	// NoServerInteraction excludes the attribute from the payload sent to the
	// server while still persisting it locally.
	NoServerInteraction bool
	Description         string
}

// Attribute is a Property that takes part in model persistence.
type Attribute struct {
	Property
	attrParams AttributeParams
}

// NewAttribute creates an attribute of object.
func NewAttribute(object Host, name string, params AttributeParams) *Attribute {
	a := &Attribute{attrParams: params}
	a.Property = *NewProperty(object, name, params.PropertyParams)
	return a
}

// AttributeParams returns the declaration parameters.
func (a *Attribute) AttributeParams() AttributeParams { return a.attrParams }

// Persisted reports whether the attribute is part of saved payloads. A
// temporary attribute is never persisted.
func (a *Attribute) Persisted() bool {
	return !a.attrParams.DoNotPersist && a.attrParams.StoreTemporary <= 0
}

// ServerSynced reports whether the attribute is sent to the server. A
// temporary attribute is never sent.
func (a *Attribute) ServerSynced() bool {
	return !a.attrParams.NoServerInteraction && a.attrParams.StoreTemporary <= 0
}
