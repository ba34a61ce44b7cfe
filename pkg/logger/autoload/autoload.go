// Package autoload initialises the global zerolog logger from LOG_* variables
// when imported.
package autoload

import (
	configx "github.com/tanpawarit/chative-shop-assistant/pkg/config"
	logx "github.com/tanpawarit/chative-shop-assistant/pkg/logger"
)

func init() {
	conf, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*conf)
}
