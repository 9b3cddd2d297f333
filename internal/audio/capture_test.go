package audio

import (
	"context"
	"encoding/binary"
	"math"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DeviceIndex != -1 {
		t.Errorf("DefaultConfig().DeviceIndex = %d, want -1", cfg.DeviceIndex)
	}
	if cfg.SampleRate != 8000 {
		t.Errorf("DefaultConfig().SampleRate = %d, want 8000", cfg.SampleRate)
	}
	if cfg.Channels != 1 {
		t.Errorf("DefaultConfig().Channels = %d, want 1", cfg.Channels)
	}
	if cfg.BufferSize != 512 {
		t.Errorf("DefaultConfig().BufferSize = %d, want 512", cfg.BufferSize)
	}
}

func TestNew(t *testing.T) {
	cfg := Config{
		DeviceIndex: 2,
		SampleRate:  8000,
		Channels:    1,
		BufferSize:  256,
	}

	capture := New(cfg)

	if capture == nil {
		t.Fatal("New() returned nil")
	}
	if capture.config.DeviceIndex != 2 {
		t.Errorf("capture.config.DeviceIndex = %d, want 2", capture.config.DeviceIndex)
	}
	if capture.Samples == nil {
		t.Error("capture.Samples channel is nil")
	}
	if cap(capture.Samples) != 64 {
		t.Errorf("capture.Samples capacity = %d, want 64", cap(capture.Samples))
	}
}

func TestCapture_IsRunning_InitialState(t *testing.T) {
	capture := New(DefaultConfig())

	if capture.IsRunning() {
		t.Error("IsRunning() = true for new capture, want false")
	}
}

func TestCapture_SetCallback(t *testing.T) {
	capture := New(DefaultConfig())

	capture.SetCallback(func(samples []float32) {})
	if capture.callback == nil {
		t.Error("SetCallback() did not set callback")
	}

	capture.SetCallback(nil)
	if capture.callback != nil {
		t.Error("SetCallback(nil) did not clear callback")
	}
}

func TestCapture_ErrorsBeforeInit(t *testing.T) {
	capture := New(DefaultConfig())

	if _, err := capture.ListDevices(); err != ErrNotInitialized {
		t.Errorf("ListDevices() before Init = %v, want ErrNotInitialized", err)
	}
	if err := capture.Start(context.Background()); err != ErrNotInitialized {
		t.Errorf("Start() before Init = %v, want ErrNotInitialized", err)
	}
	if err := capture.Stop(); err != ErrNotRunning {
		t.Errorf("Stop() before start = %v, want ErrNotRunning", err)
	}
}

func TestBytesToFloat32(t *testing.T) {
	want := []float32{0, 1, -1, 0.5, -0.25}

	data := make([]byte, len(want)*4)
	for i, v := range want {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}

	got := bytesToFloat32(data)

	if len(got) != len(want) {
		t.Fatalf("bytesToFloat32 returned %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBytesToFloat32_TruncatesPartialSample(t *testing.T) {
	// Trailing bytes that do not form a full sample are dropped.
	data := make([]byte, 4+2)
	binary.LittleEndian.PutUint32(data, math.Float32bits(0.75))

	got := bytesToFloat32(data)

	if len(got) != 1 {
		t.Fatalf("bytesToFloat32 returned %d samples, want 1", len(got))
	}
	if got[0] != 0.75 {
		t.Errorf("sample 0 = %v, want 0.75", got[0])
	}
}
