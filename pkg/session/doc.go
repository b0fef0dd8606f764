// Package session mounts a definition onto a model store and a form element.
//
//	def, _ := definition.FromYAML(raw)
//	s, err := session.Mount(def, model, element, session.WithHooks(reg))
//	if err != nil {
//		return err
//	}
//	defer s.Close()
package session
