package dispatcher

import (
	"sync"

	"github.com/simulot/mediagrab/pkg/models"
)

type Subscriber interface {
	// Subscribe call the given function for each status item change.
	// The returned function must be called to cancel the subscription
	Subscribe(func(models.DownloadStatusItem)) (cancel func())
}

type Publisher interface {
	// Publish the item to all current subcribers
	Publish(models.DownloadStatusItem)
}

// Dispatcher is in charge of dispatch status item changes to
// all its subscribers
type Dispatcher struct {
	sync.RWMutex
	subscribers []*subscriber
}

// subscriber will receive items emitted by the dispatcher.
// Items wait in queue until the subscriber's goroutine takes them.
type subscriber struct {
	sync.Mutex
	queue  []models.DownloadStatusItem
	signal chan struct{} // something is queued
	done   chan struct{} // closed on cancel
}

func (s *subscriber) push(n models.DownloadStatusItem) {
	s.Lock()
	s.queue = append(s.queue, n)
	s.Unlock()
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *subscriber) take() []models.DownloadStatusItem {
	s.Lock()
	defer s.Unlock()
	q := s.queue
	s.queue = nil
	return q
}

func (s *subscriber) run(onChange func(models.DownloadStatusItem)) {
	for {
		select {
		case <-s.done:
			return
		case <-s.signal:
			for _, n := range s.take() {
				select {
				case <-s.done:
					return
				default:
				}
				onChange(n)
			}
		}
	}
}

// NewDispatcher creates a dispatcher
func NewDispatcher() *Dispatcher {
	d := Dispatcher{}
	return &d
}

// Publish queues the item for all of subscribers. It never waits for them.
func (d *Dispatcher) Publish(n models.DownloadStatusItem) {
	d.RLock()
	defer d.RUnlock()
	for _, s := range d.subscribers {
		s.push(n)
	}
}

// Subscribe call onChange function for each published item and return the Unsubscribe function
// It creates a subcriber record for each subscriber
func (d *Dispatcher) Subscribe(onChange func(models.DownloadStatusItem)) (cancel func()) {
	d.Lock()
	defer d.Unlock()
	s := &subscriber{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	d.subscribers = append(d.subscribers, s)

	go s.run(onChange)

	var once sync.Once
	return func() {
		once.Do(func() { d.unsubscribe(s) })
	}
}

// unsubscribe remove the subscriber from the list
func (d *Dispatcher) unsubscribe(s *subscriber) {
	d.Lock()
	defer d.Unlock()
	for i := range d.subscribers {
		if d.subscribers[i] == s {
			close(s.done)
			d.subscribers[i] = d.subscribers[len(d.subscribers)-1]
			d.subscribers[len(d.subscribers)-1] = nil
			d.subscribers = d.subscribers[0 : len(d.subscribers)-1]
			return
		}
	}
}
