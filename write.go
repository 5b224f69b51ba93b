package serial

// Write writes all of data, returning how many bytes the OS accepted before
// the first fault.
func (p *port) Write(data []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}

	p.wmu.Lock()
	defer p.wmu.Unlock()

	return p.write(data)
}

// WriteBytes writes all of data or fails. After a failure nothing is known
// about how much of data reached the line.
func (p *port) WriteBytes(data []byte) error {
	_, err := p.Write(data)
	return err
}

func (p *port) WriteByte(b byte) error {
	return p.WriteBytes([]byte{b})
}

func (p *port) write(data []byte) (int, error) {
	total := 0
	for total < len(data) {
		n, err := p.dev.Write(data[total:])
		if err != nil {
			p.log.Debug("write failed", "written", total, "len", len(data), "err", err)
			return total, opError("write", p.path, ErrWriteFault, err)
		}
		if n <= 0 {
			// a blocking descriptor never accepts zero bytes without an error
			return total, opError("write", p.path, ErrWriteFault, nil)
		}
		total += n
	}
	return total, nil
}
