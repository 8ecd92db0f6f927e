package config

import (
	"testing"

	"github.com/anigrab-cli/anigrab/filesystem"
	"github.com/anigrab-cli/anigrab/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				val := viper.Get(name)
				So(val, ShouldNotBeNil)
			}
		})

		Convey("Registry cardinality matches the schema", func() {
			So(len(Default), ShouldEqual, key.DefinedFieldsCount)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("download.quality")
			So(result, ShouldEqual, "download_quality")
		})

		Convey("Env names carry the application prefix", func() {
			field := Default[key.DownloadParallel]
			So(field.Env(), ShouldEqual, "ANIGRAB_DOWNLOAD_PARALLEL")
		})
	})
}
