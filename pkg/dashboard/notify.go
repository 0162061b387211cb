package dashboard

// statusSink collects machine notifications raised synchronously inside
// Update so they can be moved onto the status bar afterwards. The
// machines hold a pointer to it; the model drains it after every machine
// call.
type statusSink struct {
	message string
	isError bool
	set     bool
}

func (s *statusSink) Success(msg string) {
	s.message = msg
	s.isError = false
	s.set = true
}

func (s *statusSink) Error(msg string) {
	s.message = msg
	s.isError = true
	s.set = true
}

// take returns and clears the pending notification.
func (s *statusSink) take() (string, bool, bool) {
	if !s.set {
		return "", false, false
	}
	msg, isErr := s.message, s.isError
	s.message, s.isError, s.set = "", false, false
	return msg, isErr, true
}
