package indicator

import "github.com/golang/glog"

// LogRenderer logs state changes, for boards without an indicator.
type LogRenderer struct {
	last State
}

// Render implements Renderer.
func (r *LogRenderer) Render(s State) error {
	if s != r.last {
		glog.Infof("link quality %s -> %s", r.last, s)
		r.last = s
	}
	return nil
}
