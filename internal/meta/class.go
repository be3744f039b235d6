package meta

// DefaultDatabaseName is used when no class in the chain names a database.
const DefaultDatabaseName = "default"

// ClassMeta is the class-level metadata of a decorated type.
type ClassMeta struct {
	Name           string
	CollectionName string
	DatabaseName   string
	Parent         *ClassMeta
}

// Collection returns the collection name, inherited from the closest ancestor
// that sets one. It is empty when no class in the chain names a collection.
func (c *ClassMeta) Collection() string {
	for cur := c; cur != nil; cur = cur.Parent {
		if cur.CollectionName != "" {
			return cur.CollectionName
		}
	}
	return ""
}

// Database returns the database name, inherited like Collection, falling back
// to DefaultDatabaseName.
func (c *ClassMeta) Database() string {
	for cur := c; cur != nil; cur = cur.Parent {
		if cur.DatabaseName != "" {
			return cur.DatabaseName
		}
	}
	return DefaultDatabaseName
}

// Lineage returns the class names from the root ancestor down to c.
func (c *ClassMeta) Lineage() []string {
	var names []string
	for cur := c; cur != nil; cur = cur.Parent {
		names = append([]string{cur.Name}, names...)
	}
	return names
}
