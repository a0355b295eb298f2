package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// ProcessTime returns a Gin middleware that reports server-side processing
// time in the X-Process-Time response header, in seconds. The header is
// injected just before the status line is written, so it covers the full
// handler duration.
func ProcessTime() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &timingWriter{ResponseWriter: c.Writer, start: time.Now()}
		c.Next()
	}
}

type timingWriter struct {
	gin.ResponseWriter
	start time.Time
	set   bool
}

func (w *timingWriter) setHeader() {
	if w.set {
		return
	}
	w.set = true
	w.Header().Set("X-Process-Time", fmt.Sprintf("%.6f", time.Since(w.start).Seconds()))
}

func (w *timingWriter) WriteHeader(status int) {
	w.setHeader()
	w.ResponseWriter.WriteHeader(status)
}

func (w *timingWriter) Write(b []byte) (int, error) {
	w.setHeader()
	return w.ResponseWriter.Write(b)
}

func (w *timingWriter) WriteString(s string) (int, error) {
	w.setHeader()
	return w.ResponseWriter.WriteString(s)
}
