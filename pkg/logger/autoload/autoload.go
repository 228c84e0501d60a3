// Package autoload configures the global logger as a side effect of import:
//
//	import _ "github.com/MehanazMI/tea-stall-bench/pkg/logger/autoload"
package autoload

import (
	"github.com/kelseyhightower/envconfig"

	logx "github.com/MehanazMI/tea-stall-bench/pkg/logger"
)

func init() {
	var conf logx.Config
	// A broken LOG_* variable should not kill the process before main runs.
	if err := envconfig.Process("LOG", &conf); err != nil {
		conf = logx.Config{}
	}
	logx.Init(conf)
}
