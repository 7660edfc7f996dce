package fiberlog

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const requestMessage = "запрос api"

// New возвращает middleware, пишущее запись о каждом запросе в logrus.
// Ответы со статусом >= 300 логируются уровнем warn
func New(config ...Config) fiber.Handler {
	cfg := ConfigDefault
	if len(config) > 0 {
		cfg = config[0]
	}
	d := new(data)
	d.pid = os.Getpid()
	ftm := getFuncTagMap(cfg, d)
	return func(c *fiber.Ctx) error {
		d.start = time.Now()
		err := c.Next()
		d.end = time.Now()
		// preflight-запросы не логируем
		if c.Method() == fiber.MethodOptions {
			return err
		}
		fields := collectFields(ftm, c, d)
		if cfg.Logger == nil {
			log.WithFields(fields).Info(requestMessage)
			return err
		}
		entry := cfg.Logger.WithFields(fields)
		if c.Response() != nil && c.Response().StatusCode() >= 300 {
			entry.Warn(requestMessage)
		} else {
			entry.Info(requestMessage)
		}
		return err
	}
}

func collectFields(ftm map[string]FuncTag, c *fiber.Ctx, d *data) log.Fields {
	fields := make(log.Fields, len(ftm))
	for key, tagFunc := range ftm {
		value := tagFunc(c, d)
		if strValue, ok := value.(string); ok {
			if strValue != "" {
				fields[key] = strValue
			}
			continue
		}
		fields[key] = value
	}
	return fields
}
