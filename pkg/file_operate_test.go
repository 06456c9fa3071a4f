package pkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestCheckFileExist(t *testing.T) {
	convey.Convey("reports existing and missing files", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "front.tgm")
		convey.So(os.WriteFile(path, []byte("[Node]\n"), 0o644), convey.ShouldBeNil)

		exist, err := CheckFileExist(path)
		convey.So(err, convey.ShouldBeNil)
		convey.So(exist, convey.ShouldBeTrue)

		exist, err = CheckFileExist(filepath.Join(dir, "rear.tgm"))
		convey.So(err, convey.ShouldBeNil)
		convey.So(exist, convey.ShouldBeFalse)
	})
}

func TestCheckFileExistDirectory(t *testing.T) {
	convey.Convey("a directory is not a parseable file", t, func() {
		exist, err := CheckFileExist(t.TempDir())
		convey.So(exist, convey.ShouldBeFalse)
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestHasTGMExt(t *testing.T) {
	convey.Convey("matches the tire file extension case-insensitively", t, func() {
		convey.So(HasTGMExt("rTrainer_Tires.tgm"), convey.ShouldBeTrue)
		convey.So(HasTGMExt("F1_FRONT.TGM"), convey.ShouldBeTrue)
		convey.So(HasTGMExt("tires.ini"), convey.ShouldBeFalse)
		convey.So(HasTGMExt("tgm"), convey.ShouldBeFalse)
	})
}
