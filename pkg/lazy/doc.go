// Package lazy implements deferred field editing. A Field keeps a private
// buffer of one model path; a Group collects the fields mounted in one scope;
// a Coordinator listens to the scope's submit and reset events and, once the
// dispatch has fully settled, commits every buffer into the model (valid
// submit) or resyncs every buffer from it (reset, invalid submit).
//
// The coordinator never reads validity inside its own listener. Other submit
// listeners, such as host validation, may run after it within the same
// dispatch, so the decision is deferred to a later loop turn:
//
//	l := loop.New()
//	el, _ := form.NewElement("profile", l)
//	coord, _ := lazy.NewCoordinator(el, tracker)
//	name, _ := lazy.NewField(model, "name", lazy.Standalone(coord))
//	name.SetBuffer("new")
//	_ = el.Submit()
//	l.RunUntilIdle() // model.name == "new" when tracker reports valid
package lazy
