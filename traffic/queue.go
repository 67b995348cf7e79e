// Package traffic generates the bursty packet arrivals that feed each station.
package traffic

import (
	"errors"

	"github.com/sarchlab/pcsma/sim"
)

// ErrQueueEmpty is returned when taking a packet from an empty queue.
var ErrQueueEmpty = errors.New("traffic: queue is empty")

// A Packet is a unit of data waiting to be sent.
type Packet struct {
	ArrivalTime sim.VTimeInSec
}

// A Queue holds packets in arrival order. It is unbounded.
type Queue struct {
	packets []Packet
	head    int
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a packet at the tail.
func (q *Queue) Push(p Packet) {
	q.packets = append(q.packets, p)
}

// Len returns the number of queued packets.
func (q *Queue) Len() int {
	return len(q.packets) - q.head
}

// Peek returns the head packet without removing it.
func (q *Queue) Peek() (Packet, error) {
	if q.Len() == 0 {
		return Packet{}, ErrQueueEmpty
	}

	return q.packets[q.head], nil
}

// Pop removes and returns the head packet.
func (q *Queue) Pop() (Packet, error) {
	if q.Len() == 0 {
		return Packet{}, ErrQueueEmpty
	}

	p := q.packets[q.head]
	q.head++

	if q.head > 1024 && q.head*2 > len(q.packets) {
		q.packets = append([]Packet(nil), q.packets[q.head:]...)
		q.head = 0
	}

	return p, nil
}
