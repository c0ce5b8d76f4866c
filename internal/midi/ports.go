package midi

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register rtmidi driver
)

// Manager handles MIDI port discovery and opens listeners and senders
type Manager struct {
	mu  sync.RWMutex
	log logrus.FieldLogger
}

// NewManager creates a new MIDI manager
func NewManager(log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{log: log}
}

// Close cleans up the MIDI driver
func (m *Manager) Close() {
	gomidi.CloseDriver()
}

// ListInPorts returns the names of available MIDI input ports
func (m *Manager) ListInPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ins := gomidi.GetInPorts()
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// ListOutPorts returns the names of available MIDI output ports
func (m *Manager) ListOutPorts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	outs := gomidi.GetOutPorts()
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names
}

// GetInPort returns an input port by name, or nil if it is not connected
func (m *Manager) GetInPort(name string) drivers.In {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, in := range gomidi.GetInPorts() {
		if in.String() == name {
			return in
		}
	}
	return nil
}

// GetOutPort returns an output port by name, or nil if it is not connected
func (m *Manager) GetOutPort(name string) drivers.Out {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, out := range gomidi.GetOutPorts() {
		if out.String() == name {
			return out
		}
	}
	return nil
}

// RawCallback receives every incoming message as raw bytes
type RawCallback func(portName string, raw []byte)

// StartListening forwards every message arriving on the named input port to
// callback. The returned function stops the listener.
func (m *Manager) StartListening(inPortName string, callback RawCallback) (func(), error) {
	if inPortName == "" {
		return nil, nil
	}

	inPort := m.GetInPort(inPortName)
	if inPort == nil {
		return nil, fmt.Errorf("input port not found: %s", inPortName)
	}

	stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
		callback(inPortName, msg.Bytes())
	}, gomidi.UseSysEx())
	if err != nil {
		return nil, fmt.Errorf("failed to start listening on %s: %w", inPortName, err)
	}

	m.log.WithField("port", inPortName).Info("listening")
	return stop, nil
}

// PortSink writes outgoing messages to one output port in call order
type PortSink struct {
	mu   sync.Mutex
	name string
	send func(gomidi.Message) error
}

// OpenSink opens the named output port for sending
func (m *Manager) OpenSink(outPortName string) (*PortSink, error) {
	outPort := m.GetOutPort(outPortName)
	if outPort == nil {
		return nil, fmt.Errorf("output port not found: %s", outPortName)
	}

	send, err := gomidi.SendTo(outPort)
	if err != nil {
		return nil, fmt.Errorf("failed to create sender for %s: %w", outPortName, err)
	}
	return &PortSink{name: outPortName, send: send}, nil
}

// Name returns the output port name
func (s *PortSink) Name() string {
	return s.name
}

// Send writes one message to the port
func (s *PortSink) Send(msg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.send(gomidi.Message(msg)); err != nil {
		return fmt.Errorf("send to %s failed: %w", s.name, err)
	}
	return nil
}
