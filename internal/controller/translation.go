package controller

// Translation translates a key of the controller's namespace. It accepts
//
//	Translation(key)
//	Translation(key, vars)
//	Translation(namespace, key)
//	Translation(namespace, key, vars)
//
// where vars is a map[string]any. Without an explicit namespace the class
// name of the component is used, or of the owning component for plain
// controllers. The namespace bundle is built on first use from the resources
// of every class between BaseController and the namespace class.
func (c *BaseController) Translation(args ...any) string {
	if len(args) == 0 {
		return ""
	}
	namespace, _ := args[0].(string)
	var key string
	var vars map[string]any
	if len(args) > 1 {
		switch t := args[1].(type) {
		case string:
			key = t
		case map[string]any:
			vars = t
		}
	}
	if len(args) > 2 {
		vars, _ = args[2].(map[string]any)
	}

	subject := c.translationSubject()
	if key == "" {
		key = namespace
		namespace = subject.ClassName()
	}

	tr := c.Env().Translator
	if !tr.HasBundle(namespace) {
		lineage := subject.Class().Lineage()
		start, end := 0, len(lineage)
		for i, name := range lineage {
			if name == BaseControllerClass.Name() {
				start = i
			}
			if name == namespace && namespace != subject.ClassName() {
				end = i + 1
			}
		}
		if start > end {
			start = end
		}
		for _, class := range lineage[start:end] {
			if entries, ok := tr.Resources(class); ok {
				tr.AddBundle(namespace, entries)
			}
		}
	}
	return tr.T(namespace, key, vars)
}

// translationSubject is the controller whose class names the default
// namespace.
func (c *BaseController) translationSubject() *BaseController {
	if c.IsComponent() {
		return c
	}
	if owner := c.Owner(); owner != nil {
		return owner.Base()
	}
	return c
}
