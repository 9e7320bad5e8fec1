package processors

import "github.com/logward/logward-go/pkg/logward"

// Service returns a processor that tags every record with a "service"
// field, unless the record already carries one.
func Service(name string) logward.Processor {
	return logward.ProcessorFunc(func(rec *logward.Record) *logward.Record {
		if _, ok := rec.Get("service"); !ok {
			rec.Set("service", name)
		}
		return rec
	})
}
