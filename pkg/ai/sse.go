package ai

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"
)

// streamParser accumulates raw response bytes and emits deltas for every
// complete `data: {...}` line. Buffering happens at the byte level, so a
// read boundary may fall anywhere — mid-line, mid-JSON token or inside a
// multi-byte UTF-8 sequence — without affecting the output. A payload is
// never parsed before its line is fully received.
type streamParser struct {
	buf         []byte
	accumulated strings.Builder
	done        bool
	onChunk     ChunkFunc
	onDone      DoneFunc
}

func newStreamParser(onChunk ChunkFunc, onDone DoneFunc) *streamParser {
	return &streamParser{onChunk: onChunk, onDone: onDone}
}

// Feed consumes the next chunk of response bytes. It returns true once the
// [DONE] sentinel has been seen; any bytes fed afterwards are discarded.
func (p *streamParser) Feed(data []byte) bool {
	if p.done {
		return true
	}

	p.buf = append(p.buf, data...)
	for {
		i := bytes.IndexByte(p.buf, '\n')
		if i < 0 {
			return false
		}
		line := string(p.buf[:i])
		p.buf = p.buf[i+1:]
		if p.processLine(line) {
			return true
		}
	}
}

// Finish handles end-of-stream without a [DONE] sentinel: onDone still
// fires with whatever accumulated. A trailing unterminated fragment is
// dropped, matching the line-framed protocol.
func (p *streamParser) Finish() {
	p.complete()
}

// Accumulated returns the running concatenation of all deltas.
func (p *streamParser) Accumulated() string {
	return p.accumulated.String()
}

func (p *streamParser) processLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || !strings.HasPrefix(trimmed, dataPrefix) {
		return false
	}

	payload := trimmed[len(dataPrefix):]
	if payload == doneSentinel {
		p.complete()
		return true
	}

	var chunk streamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		// Tolerate isolated corrupt frames from the upstream service.
		slog.Debug("stream_frame_malformed", "error", err, "payload_len", len(payload))
		return false
	}

	if len(chunk.Choices) == 0 {
		return false
	}
	delta := chunk.Choices[0].Delta.Content
	if delta == "" {
		return false
	}

	p.accumulated.WriteString(delta)
	if p.onChunk != nil {
		p.onChunk(delta, p.accumulated.String())
	}
	return false
}

func (p *streamParser) complete() {
	if p.done {
		return
	}
	p.done = true
	if p.onDone != nil {
		p.onDone(p.accumulated.String())
	}
}
