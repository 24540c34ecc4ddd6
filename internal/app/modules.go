package app

import (
	"github.com/specialistvlad/rootgridgo/internal/registry"
	"github.com/specialistvlad/rootgridgo/modules/copyfile"
	"github.com/specialistvlad/rootgridgo/modules/ensuredir"
	"github.com/specialistvlad/rootgridgo/modules/fetchstage"
	"github.com/specialistvlad/rootgridgo/modules/runcmd"
)

// coreModules lists the built-in action implementations registered by
// default. Tests pass their own modules to NewApp to substitute these.
var coreModules = []registry.Module{
	&runcmd.Module{},
	&copyfile.Module{},
	&ensuredir.Module{},
	&fetchstage.Module{},
}
