// Package bridge talks to the robot bridge process, which owns the vendor
// SDK connection to the arm controller. Commands are JSON messages over a
// websocket, answered one at a time in order.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playpool/cuebot/internal/strike"
)

var ErrRejected = errors.New("bridge rejected command")

var _ strike.Controller = (*Client)(nil)

// Request is a single command sent to the bridge.
type Request struct {
	ID     uint64      `json:"id"`
	Op     string      `json:"op"`
	Target *[6]float64 `json:"target,omitempty"`
	Pin    int         `json:"pin,omitempty"`
	On     bool        `json:"on,omitempty"`
}

// Response answers the Request with the same ID.
type Response struct {
	ID    uint64 `json:"id"`
	OK    bool   `json:"ok"`
	Done  bool   `json:"done,omitempty"`
	Error string `json:"error,omitempty"`
}

const (
	OpPTP        = "ptp"
	OpLinear     = "lin"
	OpJoints     = "joints"
	OpSetOutput  = "set_output"
	OpMotionDone = "motion_done"
)

// Client implements strike.Controller over a bridge connection.
type Client struct {
	conn    *websocket.Conn
	timeout time.Duration

	mu     sync.Mutex
	nextID uint64
}

// Dial connects to the bridge at url (ws:// or wss://).
func Dial(ctx context.Context, url string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial bridge %s: %w", url, err)
	}
	log.Printf("[BRIDGE] connected to %s", url)
	return &Client{conn: conn, timeout: timeout}, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

func (c *Client) call(ctx context.Context, req Request) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	req.ID = c.nextID

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteJSON(req); err != nil {
		return Response{}, fmt.Errorf("send %s: %w", req.Op, err)
	}

	c.conn.SetReadDeadline(deadline)
	for {
		var resp Response
		if err := c.conn.ReadJSON(&resp); err != nil {
			return Response{}, fmt.Errorf("read %s reply: %w", req.Op, err)
		}
		if resp.ID != req.ID {
			log.Printf("[BRIDGE] dropping stale reply id=%d (want %d)", resp.ID, req.ID)
			continue
		}
		if !resp.OK {
			return resp, fmt.Errorf("%s: %s: %w", req.Op, resp.Error, ErrRejected)
		}
		return resp, nil
	}
}

func (c *Client) MovePTP(ctx context.Context, pose [6]float64) error {
	_, err := c.call(ctx, Request{Op: OpPTP, Target: &pose})
	return err
}

func (c *Client) MoveLinear(ctx context.Context, pose [6]float64) error {
	_, err := c.call(ctx, Request{Op: OpLinear, Target: &pose})
	return err
}

func (c *Client) MoveJoints(ctx context.Context, joints [6]float64) error {
	_, err := c.call(ctx, Request{Op: OpJoints, Target: &joints})
	return err
}

func (c *Client) SetDigitalOutput(ctx context.Context, pin int, on bool) error {
	_, err := c.call(ctx, Request{Op: OpSetOutput, Pin: pin, On: on})
	return err
}

func (c *Client) MotionDone(ctx context.Context) (bool, error) {
	resp, err := c.call(ctx, Request{Op: OpMotionDone})
	if err != nil {
		return false, err
	}
	return resp.Done, nil
}
