package process

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"
	"github.com/tacusci/logging/v2"
)

type SweepStagedFilesTestSuite struct {
	suite.Suite
	is  *is.I
	fs  afero.Fs
	now time.Time
}

func (suite *SweepStagedFilesTestSuite) SetupSuite() {
	logging.CurrentLoggingLevel = logging.SilentLevel
	suite.is = is.New(suite.T())
}

func (suite *SweepStagedFilesTestSuite) TearDownSuite() {
	logging.CurrentLoggingLevel = logging.WarnLevel
	fs = afero.NewOsFs()
	TimeNow = time.Now
}

func (suite *SweepStagedFilesTestSuite) SetupTest() {
	suite.fs = afero.NewMemMapFs()
	fs = suite.fs
	suite.now = time.Date(2021, 11, 3, 12, 0, 0, 0, time.UTC)
	TimeNow = func() time.Time { return suite.now }
	suite.is.NoErr(suite.fs.MkdirAll("/testroot/staging", os.ModePerm|os.ModeDir))
}

func TestSweepStagedFilesTestSuite(t *testing.T) {
	suite.Run(t, &SweepStagedFilesTestSuite{})
}

func (suite *SweepStagedFilesTestSuite) stage(name string, age time.Duration) string {
	path := "/testroot/staging/" + name
	suite.is.NoErr(afero.WriteFile(suite.fs, path, []byte("staged"), 0600))
	modTime := suite.now.Add(-age)
	suite.is.NoErr(suite.fs.Chtimes(path, modTime, modTime))
	return path
}

func (suite *SweepStagedFilesTestSuite) exists(path string) bool {
	exists, err := afero.Exists(suite.fs, path)
	suite.is.NoErr(err)
	return exists
}

func (suite *SweepStagedFilesTestSuite) TestSweepRemovesOnlyStaleStagedFiles() {
	stale := suite.stage("dragonfx-stale.mp4", 2*time.Hour)
	fresh := suite.stage("dragonfx-fresh.mp4", time.Minute)
	foreign := suite.stage("holiday.mp4", 48*time.Hour)

	ranAt := sweep("/testroot/staging", time.Hour, time.Time{})

	suite.is.Equal(ranAt, suite.now)
	suite.is.True(!suite.exists(stale))
	suite.is.True(suite.exists(fresh))
	suite.is.True(suite.exists(foreign))
}

func (suite *SweepStagedFilesTestSuite) TestSweepWaitsForInterval() {
	stale := suite.stage("dragonfx-stale.gif", 2*time.Hour)
	lastRun := suite.now.Add(-time.Minute)

	ranAt := sweep("/testroot/staging", time.Hour, lastRun)

	suite.is.Equal(ranAt, lastRun)
	suite.is.True(suite.exists(stale))
}

func (suite *SweepStagedFilesTestSuite) TestSweepMissingDirectory() {
	ranAt := sweep("/testroot/missing", time.Hour, time.Time{})
	suite.is.Equal(ranAt, suite.now)
}

func (suite *SweepStagedFilesTestSuite) TestSweepStagedFilesProcess() {
	stale := suite.stage("dragonfx-stale.mp4", 2*time.Hour)

	sweeper := New(Settings{
		WaitForShutdownMsg: "Stopping test sweeping of staged files...",
		Process:            SweepStagedFiles("/testroot/staging", time.Hour),
	})
	sweeper.Start()

	timeout := time.After(3 * time.Second)
fileExistanceProcLoop:
	for {
		time.Sleep(1 * time.Millisecond)
		select {
		case <-timeout:
			suite.T().Fatal("Timeout exceeded. Sweep process took too long...")
			break fileExistanceProcLoop
		default:
			if !suite.exists(stale) {
				break fileExistanceProcLoop
			}
		}
	}

	sweeper.Stop()
	sweeper.Wait()
	suite.is.True(!suite.exists(stale))
}

func (suite *SweepStagedFilesTestSuite) TestSweepProcessStopsOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())
	signals := SweepStagedFiles("/testroot/staging", time.Hour)(ctx)
	suite.Require().Len(signals, 1)
	cancel()
	select {
	case <-signals[0]:
	case <-time.After(time.Second):
		suite.T().Fatal("sweep process did not stop after cancel")
	}
}
