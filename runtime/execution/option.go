package execution

// Option customises a newly created session
type Option func(session *Session)

// WithID overrides the generated session id
func WithID(id string) Option {
	return func(session *Session) {
		if id != "" {
			session.ID = id
		}
	}
}

// WithOutput seeds the accumulated output map, used when resuming an
// inspection copy of a stored session
func WithOutput(output map[string]interface{}) Option {
	return func(session *Session) {
		for k, v := range output {
			session.Output[k] = v
		}
	}
}
