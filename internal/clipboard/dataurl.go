package clipboard

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeImagePayload normalizes an image payload to raw bytes. Payloads
// arriving from UI callers may be data-URL strings ("data:image/png;base64,...");
// payloads from the system clipboard are already raw. Decoding happens here,
// once, so nothing past this boundary needs to sniff string prefixes.
func DecodeImagePayload(payload []byte) ([]byte, error) {
	s := string(payload)
	if !strings.HasPrefix(s, "data:") {
		return payload, nil
	}

	idx := strings.Index(s, "base64,")
	if idx < 0 {
		return nil, fmt.Errorf("data URL is not base64 encoded")
	}

	raw, err := base64.StdEncoding.DecodeString(s[idx+len("base64,"):])
	if err != nil {
		return nil, fmt.Errorf("failed to decode data URL: %w", err)
	}
	return raw, nil
}
