package generator

// TopicStats summarizes one recipe line.
type TopicStats struct {
	Topic          string `json:"topic"`
	Pattern        string `json:"pattern"`
	Requested      int    `json:"requested"`
	Accepted       int    `json:"accepted"`
	Attempts       int    `json:"attempts"`
	DiscardedSlots int    `json:"discarded_slots"`
	Short          bool   `json:"short"`
}

// RunStats aggregates a whole run.
type RunStats struct {
	Topics         []TopicStats `json:"topics"`
	Requested      int          `json:"requested"`
	Accepted       int          `json:"accepted"`
	Attempts       int          `json:"attempts"`
	DiscardedSlots int          `json:"discarded_slots"`
	ShortTopics    int          `json:"short_topics"`
	IndexGrams     int          `json:"index_grams"`
}

func (s *RunStats) add(ts TopicStats) {
	s.Topics = append(s.Topics, ts)
	s.Requested += ts.Requested
	s.Accepted += ts.Accepted
	s.Attempts += ts.Attempts
	s.DiscardedSlots += ts.DiscardedSlots
	if ts.Short {
		s.ShortTopics++
	}
}
