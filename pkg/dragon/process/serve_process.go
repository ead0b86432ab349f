package process

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/tauraamui/dragonfx/pkg/log"
)

var shutdownGracePeriod = 10 * time.Second

// ServeHTTP serves handler on listener until the process is cancelled,
// at which point in flight requests get a grace period to finish.
func ServeHTTP(listener net.Listener, handler http.Handler) func(cancel context.Context) []chan interface{} {
	return func(cancel context.Context) []chan interface{} {
		var stopSignals []chan interface{}
		srv := &http.Server{Handler: handler}
		log.Info("Serving effects API on [%s]", listener.Addr())

		served := make(chan interface{})
		go func(srv *http.Server, served chan interface{}) {
			if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Effects API stopped unexpectedly: %v", err)
			}
			close(served)
		}(srv, served)

		stopping := make(chan interface{})
		go func(cancel context.Context, srv *http.Server, served, stopping chan interface{}) {
			<-cancel.Done()
			ctx, done := context.WithTimeout(context.Background(), shutdownGracePeriod)
			defer done()
			if err := srv.Shutdown(ctx); err != nil {
				log.Warn("Unable to gracefully stop effects API: %v", err)
				srv.Close()
			}
			<-served
			close(stopping)
		}(cancel, srv, served, stopping)

		stopSignals = append(stopSignals, stopping)
		return stopSignals
	}
}
