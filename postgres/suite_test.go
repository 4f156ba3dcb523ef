package postgres_test

import (
	"errors"
	"io/fs"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/suite"
	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/postgres"
	"github.com/xy-planning-network/golink/ranger"
)

type DBTestSuite struct {
	suite.Suite

	db *postgres.DB
}

func TestRunSuite(t *testing.T) {
	suite.Run(t, new(DBTestSuite))
}

func (suite *DBTestSuite) SetupSuite() {
	err := godotenv.Load("../.env")
	var pe *fs.PathError
	if err != nil && !errors.As(err, &pe) {
		suite.Require().FailNow(err.Error())
	}

	if os.Getenv("DATABASE_TEST_NAME") == "" && os.Getenv("DATABASE_TEST_URL") == "" {
		suite.T().Skip("DATABASE_TEST_NAME not set")
	}

	cfg := ranger.NewPostgresConfig(golink.Testing)

	suite.db, err = postgres.Connect(cfg, postgres.Migrations, golink.Testing)
	suite.Require().Nil(err)
}

func (suite *DBTestSuite) TearDownTest() {
	suite.Require().Nil(postgres.WipeDB(suite.db, "public"))
}
