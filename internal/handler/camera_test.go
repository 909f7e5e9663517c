package handler

import (
	"bytes"
	"net"
	"testing"

	"faceoverlay/internal/config"
)

func TestFrameAssembler_SplitFrame(t *testing.T) {
	a := newFrameAssembler(maxFrameSize)

	parts := [][]byte{
		{0xFF, 0xD8, 0x01, 0x02},
		{0x03, 0x04},
		{0x05, 0xFF, 0xD9},
	}

	for i, part := range parts[:2] {
		if frame := a.Feed("door", part); frame != nil {
			t.Fatalf("Packet %d should not complete a frame", i)
		}
	}

	frame := a.Feed("door", parts[2])
	expected := bytes.Join(parts, nil)
	if !bytes.Equal(frame, expected) {
		t.Errorf("Reassembled frame = %x, expected %x", frame, expected)
	}
}

func TestFrameAssembler_RestartsOnHeader(t *testing.T) {
	a := newFrameAssembler(maxFrameSize)

	a.Feed("door", []byte{0xFF, 0xD8, 0xAA})
	frame := a.Feed("door", []byte{0xFF, 0xD8, 0xBB, 0xFF, 0xD9})

	if !bytes.Equal(frame, []byte{0xFF, 0xD8, 0xBB, 0xFF, 0xD9}) {
		t.Errorf("Expected partial frame to be discarded, got %x", frame)
	}
}

func TestFrameAssembler_DropsHeadlessFrame(t *testing.T) {
	a := newFrameAssembler(maxFrameSize)

	if frame := a.Feed("door", []byte{0x01, 0xFF, 0xD9}); frame != nil {
		t.Errorf("Frame without start marker should be dropped, got %x", frame)
	}
	if frame := a.Feed("door", []byte{0xFF, 0xD8, 0xFF, 0xD9}); frame == nil {
		t.Error("Expected the next complete frame to be returned")
	}
}

func TestFrameAssembler_PerCamera(t *testing.T) {
	a := newFrameAssembler(maxFrameSize)

	a.Feed("door", []byte{0xFF, 0xD8, 0x01})
	a.Feed("garage", []byte{0xFF, 0xD8, 0x02})

	door := a.Feed("door", []byte{0xFF, 0xD9})
	garage := a.Feed("garage", []byte{0xFF, 0xD9})

	if !bytes.Equal(door, []byte{0xFF, 0xD8, 0x01, 0xFF, 0xD9}) {
		t.Errorf("door frame = %x", door)
	}
	if !bytes.Equal(garage, []byte{0xFF, 0xD8, 0x02, 0xFF, 0xD9}) {
		t.Errorf("garage frame = %x", garage)
	}
}

func TestCameraName(t *testing.T) {
	cfg := &config.Config{CameraNames: map[string]string{"10.0.0.5": "door"}}

	if got := cameraName(cfg, &net.UDPAddr{IP: net.ParseIP("10.0.0.5"), Port: 4000}); got != "door" {
		t.Errorf("cameraName = %q, expected door", got)
	}
	if got := cameraName(cfg, &net.UDPAddr{IP: net.ParseIP("10.0.0.9"), Port: 4000}); got != "unknown_10.0.0.9" {
		t.Errorf("cameraName = %q, expected unknown_10.0.0.9", got)
	}
}

func TestFrameAssembler_SizeLimit(t *testing.T) {
	a := newFrameAssembler(8)

	a.Feed("door", []byte{0xFF, 0xD8, 0x01, 0x02})
	for i := 0; i < 10; i++ {
		if frame := a.Feed("door", []byte{0x03, 0x04, 0x05}); frame != nil {
			t.Fatalf("Oversized stream should not produce a frame, got %x", frame)
		}
		if n := a.buffers["door"].Len(); n > 8 {
			t.Fatalf("Buffer grew to %d bytes past the limit", n)
		}
	}

	if frame := a.Feed("door", []byte{0x06, 0xFF, 0xD9}); frame != nil {
		t.Errorf("Tail of a dropped frame should not be returned, got %x", frame)
	}

	frame := a.Feed("door", []byte{0xFF, 0xD8, 0x07, 0xFF, 0xD9})
	if !bytes.Equal(frame, []byte{0xFF, 0xD8, 0x07, 0xFF, 0xD9}) {
		t.Errorf("Expected the next small frame to be reassembled, got %x", frame)
	}
}
