package component

// Behaviour binds an entity to a Lua function called once per frame.
type Behaviour struct {
	Func    string
	Elapsed float64
}

// Name is the manifest name of an entity.
type Name string
