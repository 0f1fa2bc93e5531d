package logger

import "fmt"

// KV adapts a Logger to libraries that log a message followed by alternating
// key/value params in the log/slog style, such as the backlite task queue.
type KV struct {
	Logger Logger
}

func (k KV) Info(message string, params ...any) {
	k.Logger.Info(message, pairs(params)...)
}

func (k KV) Error(message string, params ...any) {
	k.Logger.Error(message, pairs(params)...)
}

// pairs turns key/value params into fields. A trailing key without a value
// is kept under "!BADKEY", matching slog.
func pairs(params []any) []Field {
	fields := make([]Field, 0, (len(params)+1)/2)
	for i := 0; i < len(params); i += 2 {
		key, ok := params[i].(string)
		if !ok {
			key = fmt.Sprint(params[i])
		}
		if i+1 >= len(params) {
			fields = append(fields, Any("!BADKEY", params[i]))
			break
		}
		fields = append(fields, Any(key, params[i+1]))
	}
	return fields
}
