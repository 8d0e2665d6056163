package monitor

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/tidwall/sjson"
)

// SendHistoryHandler serves the buffered records. Plain text lines by
// default, CBOR when the client asks for application/cbor, gzip-compressed
// when Accept-Encoding allows it.
func (m *Monitor) SendHistoryHandler(c *gin.Context) {
	history := m.GetHistory()

	if strings.Contains(c.GetHeader("Accept"), "application/cbor") {
		data, err := cbor.Marshal(history)
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Data(http.StatusOK, "application/cbor", data)
		return
	}

	var buf bytes.Buffer
	for _, r := range history {
		buf.WriteString(r.String())
		buf.WriteByte('\n')
	}

	if acceptsGzip(c.GetHeader("Accept-Encoding")) {
		c.Header("Content-Encoding", "gzip")
		c.Header("Content-Type", "text/plain")
		gz := gzip.NewWriter(c.Writer)
		if _, err := gz.Write(buf.Bytes()); err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		gz.Close()
		return
	}

	c.Data(http.StatusOK, "text/plain", buf.Bytes())
}

// acceptsGzip checks the Accept-Encoding header for gzip support.
func acceptsGzip(acceptEncoding string) bool {
	for _, part := range strings.Split(acceptEncoding, ",") {
		enc := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if enc == "gzip" {
			return true
		}
	}
	return false
}

// StreamRecordsHandler streams records as they arrive, one JSON object per
// line. History is replayed first unless the no-history query parameter is
// present. The response stays open until the client disconnects.
func (m *Monitor) StreamRecordsHandler(c *gin.Context) {
	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Transfer-Encoding", "chunked")
	c.Header("X-Content-Type-Options", "nosniff")
	// prevent nginx from buffering the stream
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.AbortWithError(http.StatusInternalServerError, fmt.Errorf("streaming unsupported"))
		return
	}

	_, skipHistory := c.GetQuery("no-history")
	if !skipHistory {
		for _, r := range m.GetHistory() {
			c.Writer.Write(recordJSON(r))
		}
		flusher.Flush()
	}

	sendChan := make(chan []byte, 10)
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	defer m.OnRecord(func(r Record) {
		select {
		case sendChan <- recordJSON(r):
		case <-ctx.Done():
		default:
			// client is too slow, drop the record
		}
	})()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case data := <-sendChan:
			c.Writer.Write(data)
			flusher.Flush()
		}
	}
}

// recordJSON renders one record as a newline-terminated JSON object.
func recordJSON(r Record) []byte {
	out, _ := sjson.Set("", "ts", r.Timestamp.Format(time.RFC3339Nano))
	out, _ = sjson.Set(out, "kind", string(r.Kind))
	if r.Event != "" {
		out, _ = sjson.Set(out, "event", r.Event)
	}
	out, _ = sjson.Set(out, "message", r.Message)
	return append([]byte(out), '\n')
}
