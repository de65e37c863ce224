package messaging

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/clictest/clictest/internal/ports"
)

// encMode uses Core Deterministic Encoding with RFC 3339 timestamps so the
// same notification always encodes to the same bytes without losing
// sub-second precision.
var encMode cbor.EncMode

// decMode decodes untyped maps as map[string]any so payloads read back the
// way they were built.
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("messaging: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("messaging: CBOR decoder initialization failed: " + err.Error())
	}
}

// Encode serializes a notification envelope to CBOR.
func Encode(n ports.Notification) ([]byte, error) {
	data, err := encMode.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("encoding notification %s: %w", n.MessageID, err)
	}
	return data, nil
}

// Decode parses a CBOR notification envelope.
func Decode(data []byte) (ports.Notification, error) {
	var n ports.Notification
	if err := decMode.Unmarshal(data, &n); err != nil {
		return ports.Notification{}, fmt.Errorf("decoding notification: %w", err)
	}
	return n, nil
}
