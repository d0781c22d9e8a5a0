package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const redacted = "[REDACTED]"

// Logger is a key/value logger over zap that scrubs credentials and
// personal data before anything reaches a sink.
type Logger struct {
	sugar *zap.SugaredLogger
	scrub *scrubber
}

type Options struct {
	Mode string
	// Redact turns scrubbing on. Hashed identifiers use HashSalt.
	Redact   bool
	HashSalt string
}

// New builds a logger for mode ("production", "test" or anything else for
// development). Scrubbing follows LOG_REDACTION_ENABLED and LOG_HASH_SALT.
func New(mode string) (*Logger, error) {
	return NewWithOptions(Options{
		Mode:     mode,
		Redact:   !isOff(os.Getenv("LOG_REDACTION_ENABLED")),
		HashSalt: strings.TrimSpace(os.Getenv("LOG_HASH_SALT")),
	})
}

func NewWithOptions(opts Options) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(opts.Mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	case "test":
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return FromZap(z, opts), nil
}

// FromZap wraps an existing zap logger; tests use it with an observer core.
func FromZap(z *zap.Logger, opts Options) *Logger {
	var s *scrubber
	if opts.Redact {
		s = &scrubber{salt: opts.HashSalt}
	}
	return &Logger{sugar: z.Sugar(), scrub: s}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

func (l *Logger) Debug(msg string, kv ...interface{}) { l.sugar.Debugw(msg, l.scrub.kvs(kv)...) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.sugar.Infow(msg, l.scrub.kvs(kv)...) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.sugar.Warnw(msg, l.scrub.kvs(kv)...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.sugar.Errorw(msg, l.scrub.kvs(kv)...) }
func (l *Logger) Fatal(msg string, kv ...interface{}) { l.sugar.Fatalw(msg, l.scrub.kvs(kv)...) }

func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(l.scrub.kvs(kv)...), scrub: l.scrub}
}

// scrubber rewrites sensitive values by key. A nil scrubber passes through.
type scrubber struct {
	salt string
}

var (
	secretKeys = []string{"token", "authorization", "password", "secret", "cookie", "api_key", "apikey", "signature"}
	// Identity-provider ids and our own ids stay correlatable across lines.
	hashedKeys = []string{"user_id", "external_id", "clerk_id", "session_id", "admin_id"}
)

func (s *scrubber) kvs(kv []interface{}) []interface{} {
	if s == nil || len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		name := stringify(kv[i])
		out = append(out, name, s.value(normalizeKey(name), kv[i+1]))
	}
	return out
}

func (s *scrubber) value(key string, val interface{}) interface{} {
	switch {
	case key == "":
		return val
	case containsAny(key, secretKeys):
		return redacted
	case strings.Contains(key, "email"):
		return maskEmail(stringify(val))
	case containsAny(key, hashedKeys):
		return s.hash(stringify(val))
	}
	if m, ok := val.(map[string]interface{}); ok {
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			out[k] = s.value(normalizeKey(k), v)
		}
		return out
	}
	return val
}

func (s *scrubber) hash(raw string) string {
	if raw == "" {
		return ""
	}
	h := sha256.New()
	_, _ = h.Write([]byte(s.salt))
	_, _ = h.Write([]byte(raw))
	return "hash:" + hex.EncodeToString(h.Sum(nil))[:12]
}

// maskEmail keeps the first rune and the domain: "jane@x.com" -> "j***@x.com".
func maskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return redacted
	}
	first := []rune(email[:at])[0]
	return string(first) + "***" + email[at:]
}

func containsAny(key string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(key, n) {
			return true
		}
	}
	return false
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func isOff(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "0", "false", "no", "off":
		return true
	}
	return false
}
