package app

import (
	"github.com/vk/symcreep/internal/registry"
	"github.com/vk/symcreep/modules/basic"
	"github.com/vk/symcreep/modules/creep"
	"github.com/vk/symcreep/modules/kr_base"
	"github.com/vk/symcreep/modules/kr_t"
	"github.com/vk/symcreep/modules/template"
)

// coreModules lists every model implementation compiled into the binary.
var coreModules = []registry.Module{
	&basic.Module{},
	&creep.Module{},
	&kr_base.Module{},
	&kr_t.Module{},
	&template.Module{},
}
