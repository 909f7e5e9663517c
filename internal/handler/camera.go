package handler

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strconv"

	"faceoverlay/internal/config"
	"faceoverlay/internal/logger"
	"faceoverlay/internal/service"
)

var (
	jpegHeader = []byte{0xFF, 0xD8}
	jpegFooter = []byte{0xFF, 0xD9}
)

// maxFrameSize bounds a reassembled frame.
const maxFrameSize = 4 << 20

// frameAssembler rebuilds JPEG frames from UDP packets, one buffer per camera.
type frameAssembler struct {
	buffers map[string]*bytes.Buffer
	maxSize int
}

func newFrameAssembler(maxSize int) *frameAssembler {
	return &frameAssembler{buffers: make(map[string]*bytes.Buffer), maxSize: maxSize}
}

// Feed appends a packet and returns the completed frame when the packet
// carries the end-of-image marker. A start-of-image marker discards any
// partial frame, and so does growing past the size limit.
func (a *frameAssembler) Feed(camera string, data []byte) []byte {
	buf, ok := a.buffers[camera]
	if !ok {
		buf = new(bytes.Buffer)
		a.buffers[camera] = buf
	}

	if bytes.HasPrefix(data, jpegHeader) {
		buf.Reset()
	}
	if buf.Len()+len(data) > a.maxSize {
		buf.Reset()
		return nil
	}
	buf.Write(data)

	if !bytes.HasSuffix(data, jpegFooter) {
		return nil
	}

	defer buf.Reset()
	if !bytes.HasPrefix(buf.Bytes(), jpegHeader) {
		return nil
	}
	frame := make([]byte, buf.Len())
	copy(frame, buf.Bytes())
	return frame
}

// cameraName maps a sender address to its configured camera name.
func cameraName(cfg *config.Config, addr *net.UDPAddr) string {
	ip := addr.IP.String()
	if name, ok := cfg.CameraNames[ip]; ok {
		return name
	}
	return "unknown_" + ip
}

// UDPCameraHandler listens for UDP packets from cameras, reconstructs JPEG frames,
// and forwards complete frames to the Manager until ctx is cancelled.
func UDPCameraHandler(ctx context.Context, manager *service.Manager, logger *logger.Logger, config *config.Config) {
	port := strconv.Itoa(config.CamerasPort)

	addr, err := net.ResolveUDPAddr("udp", ":"+port)
	if err != nil {
		logger.Error("Failed to resolve UDP address: %v", err)
		return
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		logger.Error("Failed to listen on UDP port %s: %v", port, err)
		return
	}

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	logger.Info("UDP Camera handler started on port %s", port)
	serveCameraPackets(conn, manager, logger, config)
	logger.Info("UDP Camera handler stopped")
}

func serveCameraPackets(conn *net.UDPConn, manager *service.Manager, logger *logger.Logger, config *config.Config) {
	buffer := make([]byte, 65535)
	assembler := newFrameAssembler(maxFrameSize)

	for {
		n, remoteAddr, err := conn.ReadFromUDP(buffer)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Error("Error reading UDP packet: %v", err)
			continue
		}

		camera := cameraName(config, remoteAddr)
		if frame := assembler.Feed(camera, buffer[:n]); frame != nil {
			manager.HandleCameraFrame(frame, camera)
		}
	}
}
