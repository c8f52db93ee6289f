package queue

// Queue is a FIFO of inbound items drained by the game loop.
type Queue interface {
	// Enqueue adds an item to the end of the queue. It never blocks and
	// returns an error when the queue is full.
	Enqueue(item interface{}) error
	// ReadAllMessages removes and returns every pending item in arrival order.
	ReadAllMessages() ([]interface{}, error)
	Size() int
	ClearQueue()
}
