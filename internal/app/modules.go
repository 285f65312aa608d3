package app

import (
	"io"

	"github.com/vk/flowbench/internal/namespace"
	"github.com/vk/flowbench/internal/scenario"
	"github.com/vk/flowbench/modules/collection"
	"github.com/vk/flowbench/modules/core"
	"github.com/vk/flowbench/modules/env"
	"github.com/vk/flowbench/modules/http"
	"github.com/vk/flowbench/modules/jar"
	"github.com/vk/flowbench/modules/print"
	"github.com/vk/flowbench/modules/rss"
	"github.com/vk/flowbench/modules/socketio"
)

// CoreHandlers returns a factory of every namespace handler compiled into the
// flowbench binary. Each call of the factory builds new, uninitialized
// handlers. The print module writes to out.
func CoreHandlers(out io.Writer) scenario.HandlerFactory {
	return func() []namespace.Namespaced {
		return []namespace.Namespaced{
			core.NewNamespaceHandler(),
			collection.NewNamespaceHandler(),
			env.NewNamespaceHandler(),
			http.NewNamespaceHandler(),
			jar.NewNamespaceHandler(),
			print.NewNamespaceHandler(out),
			rss.NewNamespaceHandler(),
			socketio.NewNamespaceHandler(),
		}
	}
}
