// Command funnel generates printable funnel models as binary STL files.
//
//	funnel profile --quality export --out profile.stl
//	funnel finned --set finned.fin_type=2 --png finned.png
//	funnel inspect finned.stl
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := newRootCmd(log).Execute(); err != nil {
		log.WithError(err).Error("funnel failed")
		os.Exit(1)
	}
}
