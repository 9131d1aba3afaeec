// Package mavlink bridges a MAVLink-speaking autopilot to the rescue
// package: it decodes GPS/altitude/attitude/accelerometer/mode telemetry
// into rescue.Sensors-shaped values, tracks arming/home/RX-link state, and
// carries out the disarm/set-mode/actuation commands the rescue controller
// issues once it decides to.
package mavlink

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bluenviron/gomavlib/v3"
	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
	"github.com/bluenviron/gomavlib/v3/pkg/message"

	"flightpath-rescue/internal/rescue"
)

// PX4 Main Flight Modes encoded in MAVLink's custom_mode field.
const (
	px4MainModeManual     = 1
	px4MainModeAltctl     = 2
	px4MainModePosctl     = 3
	px4MainModeAuto       = 4
	px4MainModeAcro       = 5
	px4MainModeOffboard   = 6
	px4MainModeStabilized = 7
	px4MainModeRattitude  = 8
)

// PX4 AUTO sub-modes, valid when the main mode above is px4MainModeAuto.
const (
	px4AutoModeReady    = 1
	px4AutoModeTakeoff  = 2
	px4AutoModeLoiter   = 3
	px4AutoModeMission  = 4
	px4AutoModeRTL      = 5
	px4AutoModeLand     = 6
	px4AutoModeFollow   = 8
	px4AutoModePrecland = 9
)

// telemetry is the decoded state the client accumulates from inbound
// MAVLink messages, read by the Provider methods below under mu.
type telemetry struct {
	// GPS / position (GLOBAL_POSITION_INT, GPS_RAW_INT)
	latDeg, lonDeg     float64
	altitudeCm         float64
	groundSpeedCmS     uint16
	gpsFixType         uint8
	satelliteCount     int
	gpsHealthy         bool
	gpsPacketPending   bool
	lastGPSUpdate      time.Time
	gpsDataIntervalSec float64

	// Attitude (ATTITUDE)
	rollRad, pitchRad, yawRad float64

	// Accelerometer (HIGHRES_IMU)
	accel rescue.AccelRaw

	// Mode / arming / link health
	armed             bool
	rescueModeActive  bool
	crashFlipActive   bool
	magPresent        bool
	rxReceivingSignal bool
	lastRCUpdate      time.Time
	pilotThrottle     uint16

	// System health (SYS_STATUS)
	sensorsHealthy bool
}

// Client is a MAVLink connection to one autopilot, implementing
// rescue.Provider and rescue.Actuator against it.
type Client struct {
	node      *gomavlib.Node
	systemID  uint8
	connected bool
	logger    *log.Logger

	mu            sync.RWMutex
	lastHeartbeat time.Time
	port          string
	baudRate      int

	telemetry telemetry
	home      homeState

	stopHeartbeat chan struct{}
	heartbeatDone chan struct{}
}

// Config holds MAVLink client configuration.
type Config struct {
	Port     string
	BaudRate int
	Logger   *log.Logger
}

// NewClient creates a new MAVLink client and starts its background
// listener and ground-station heartbeat sender.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	node, err := gomavlib.NewNode(gomavlib.NodeConf{
		Endpoints: []gomavlib.EndpointConf{
			gomavlib.EndpointSerial{
				Device: cfg.Port,
				Baud:   cfg.BaudRate,
			},
		},
		Dialect:     common.Dialect,
		OutVersion:  gomavlib.V2,
		OutSystemID: 255, // GCS system ID
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MAVLink node: %w", err)
	}

	client := &Client{
		node:          node,
		logger:        cfg.Logger,
		port:          cfg.Port,
		baudRate:      cfg.BaudRate,
		stopHeartbeat: make(chan struct{}),
		heartbeatDone: make(chan struct{}),
	}

	go client.listen()
	go client.sendGroundStationMessages()

	return client, nil
}

// sendGroundStationMessages sends periodic HEARTBEAT and SYSTEM_TIME
// messages, identifying Flightpath as a ground station and providing GPS
// assistance (satisfies PX4's COM_DL_LOSS_T requirement).
func (c *Client) sendGroundStationMessages() {
	defer close(c.heartbeatDone)
	c.logger.Println("MAVLink: Starting ground station message sender")

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopHeartbeat:
			c.logger.Println("MAVLink: Stopping ground station message sender")
			return

		case <-ticker.C:
			err := c.node.WriteMessageAll(&common.MessageHeartbeat{
				Type:           common.MAV_TYPE_GCS,
				Autopilot:      common.MAV_AUTOPILOT_INVALID,
				BaseMode:       0,
				CustomMode:     0,
				SystemStatus:   common.MAV_STATE_ACTIVE,
				MavlinkVersion: 3,
			})
			if err != nil {
				c.logger.Printf("MAVLink: Error sending HEARTBEAT: %v", err)
			}

			now := time.Now()
			err = c.node.WriteMessageAll(&common.MessageSystemTime{
				TimeUnixUsec: uint64(now.UnixMicro()),
				TimeBootMs:   uint32(now.UnixMilli() % (1 << 32)),
			})
			if err != nil {
				c.logger.Printf("MAVLink: Error sending SYSTEM_TIME: %v", err)
			}
		}
	}
}

// requestDataStreams requests telemetry data streams from the autopilot so
// position/attitude/GPS/RC arrive at a usable rate.
func (c *Client) requestDataStreams() error {
	c.mu.RLock()
	systemID := c.systemID
	c.mu.RUnlock()

	c.logger.Println("MAVLink: Requesting data streams from autopilot")

	return c.node.WriteMessageAll(&common.MessageRequestDataStream{
		TargetSystem:    systemID,
		TargetComponent: 1,
		ReqStreamId:     uint8(common.MAV_DATA_STREAM_ALL),
		ReqMessageRate:  10,
		StartStop:       1,
	})
}

// listen processes incoming MAVLink messages.
func (c *Client) listen() {
	c.logger.Println("MAVLink: Starting message listener")

	for evt := range c.node.Events() {
		if frm, ok := evt.(*gomavlib.EventFrame); ok {
			c.handleMessage(frm.Message(), frm.SystemID(), frm.ComponentID())
		}
	}

	c.logger.Println("MAVLink: Message listener stopped")
}

func (c *Client) handleMessage(msg message.Message, sysID, compID uint8) {
	switch m := msg.(type) {
	case *common.MessageHeartbeat:
		c.handleHeartbeat(m, sysID)
	case *common.MessageCommandAck:
		c.handleCommandAck(m)
	case *common.MessageStatustext:
		c.logger.Printf("MAVLink STATUS: [%d] %s", m.Severity, m.Text)
	case *common.MessageGlobalPositionInt:
		c.handleGlobalPosition(m)
	case *common.MessageAttitude:
		c.handleAttitude(m)
	case *common.MessageHighresImu:
		c.handleHighresIMU(m)
	case *common.MessageSysStatus:
		c.handleSysStatus(m)
	case *common.MessageGpsRawInt:
		c.handleGpsRaw(m)
	case *common.MessageExtendedSysState:
		c.handleExtendedSysState(m)
	case *common.MessageRcChannels:
		c.handleRCChannels(m)
	}
}

func (c *Client) handleHeartbeat(msg *common.MessageHeartbeat, sysID uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		c.logger.Printf("MAVLink: Connected to system %d", sysID)
	}

	c.connected = true
	c.systemID = sysID
	c.lastHeartbeat = time.Now()

	wasArmed := c.telemetry.armed
	c.telemetry.armed = (msg.BaseMode & common.MAV_MODE_FLAG_SAFETY_ARMED) != 0
	if wasArmed != c.telemetry.armed {
		c.logger.Printf("MAVLink: Armed status changed: %v", c.telemetry.armed)
	}

	mainMode := uint8(msg.CustomMode >> 16)
	subMode := uint8(msg.CustomMode >> 24)
	c.telemetry.rescueModeActive = msg.BaseMode&common.MAV_MODE_FLAG_CUSTOM_MODE_ENABLED != 0 &&
		mainMode == px4MainModeAuto && subMode == px4AutoModeRTL
}

func (c *Client) handleCommandAck(msg *common.MessageCommandAck) {
	result := "UNKNOWN"
	switch msg.Result {
	case common.MAV_RESULT_ACCEPTED:
		result = "ACCEPTED"
	case common.MAV_RESULT_TEMPORARILY_REJECTED:
		result = "TEMPORARILY_REJECTED"
	case common.MAV_RESULT_DENIED:
		result = "DENIED"
	case common.MAV_RESULT_UNSUPPORTED:
		result = "UNSUPPORTED"
	case common.MAV_RESULT_FAILED:
		result = "FAILED"
	case common.MAV_RESULT_IN_PROGRESS:
		result = "IN_PROGRESS"
	}
	c.logger.Printf("MAVLink: Command %d result: %s", msg.Command, result)
}

func (c *Client) handleExtendedSysState(msg *common.MessageExtendedSysState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// VTOL_STATE / LANDED_STATE isn't used directly by the rescue
	// controller; crash-flip detection instead watches the
	// angular-rate-control health bit in SYS_STATUS, handled there.
	_ = msg
}

// IsConnected reports whether a heartbeat has arrived within the last 3
// seconds.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.connected && time.Since(c.lastHeartbeat) > 3*time.Second {
		return false
	}
	return c.connected
}

// WaitForConnection blocks until a heartbeat is received or timeout elapses.
func (c *Client) WaitForConnection(timeout time.Duration) error {
	c.logger.Printf("MAVLink: Waiting for heartbeat (timeout: %s)", timeout)

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if c.IsConnected() {
			c.logger.Println("MAVLink: Heartbeat received")
			if err := c.requestDataStreams(); err != nil {
				c.logger.Printf("MAVLink: Warning - failed to request data streams: %v", err)
			}
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timeout waiting for heartbeat")
		}
		<-ticker.C
	}
}

// Close shuts down the ground-station sender and the MAVLink node.
func (c *Client) Close() error {
	c.logger.Println("MAVLink: Closing connection")

	close(c.stopHeartbeat)
	select {
	case <-c.heartbeatDone:
		c.logger.Println("MAVLink: Ground station message sender stopped")
	case <-time.After(2 * time.Second):
		c.logger.Println("MAVLink: Warning - ground station message sender stop timeout")
	}

	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	c.node.Close()
	return nil
}
