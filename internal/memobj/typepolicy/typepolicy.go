// Package typepolicy implements the type-based alias policy of spec §4.3:
// a capability check gating whether an access through one static type is
// permitted against an object whose dynamic type may differ.
package typepolicy

// Capability names the static type an access or an object is tagged with,
// e.g. "char*", "struct Foo*", or "" for untyped accesses.
type Capability struct {
	Name string
}

// Policy decides whether an access presenting accessType may touch an
// object whose attached dynamic type is objType.
type Policy interface {
	IsAccessibleFrom(objType, accessType Capability) bool
}

// Default is the policy used unless a strict policy is explicitly enabled
// (spec §4.3: "the default capability model treats char* access as
// universally permitted").
type Default struct{}

func (Default) IsAccessibleFrom(objType, accessType Capability) bool {
	if accessType.Name == "" || accessType.Name == "char*" {
		return true
	}
	return objType.Name == "" || objType.Name == accessType.Name
}

// Strict requires an exact dynamic/static type match, with no char*
// universal escape hatch.
type Strict struct{}

func (Strict) IsAccessibleFrom(objType, accessType Capability) bool {
	return objType.Name == accessType.Name
}
