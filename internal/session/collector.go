package session

// Collector is an Emitter that keeps everything in memory. In-process hosts
// use it to read a response back.
type Collector struct {
	Entries  []Entry
	Done     bool // Finished was emitted
	Closed   bool // Close was emitted
	Finishes int
}

// Append records e.
func (c *Collector) Append(e Entry) error {
	c.Entries = append(c.Entries, e)
	return nil
}

// Finished marks the response complete.
func (c *Collector) Finished() error {
	c.Done = true
	c.Finishes++
	return nil
}

// Close marks the host as dismissed.
func (c *Collector) Close() error {
	c.Closed = true
	return nil
}

// Reset clears the collector for the next response.
func (c *Collector) Reset() {
	*c = Collector{}
}
