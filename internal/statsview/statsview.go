// Package statsview serves runtime statistics for long emulator runs.
//
// Graphs are served at <addr>/debug/statsview and the standard pprof
// endpoints at <addr>/debug/pprof/.
package statsview

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/golang/glog"
)

const path = "/debug/statsview"

// Server is a running statistics view
type Server struct {
	mgr *statsview.ViewManager
}

// Launch starts the stats server in a new goroutine and reports its URL
// to output.
func Launch(addr string, output io.Writer) *Server {
	viewer.SetConfiguration(viewer.WithAddr(addr))
	s := &Server{mgr: statsview.New()}

	go func() {
		if err := s.mgr.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			glog.Warningf("[STATS] server stopped: %v", err)
		}
	}()

	fmt.Fprintf(output, "stats server available at http://%s%s\n", addr, path)
	return s
}

// Stop shuts the server down
func (s *Server) Stop() {
	s.mgr.Stop()
}
