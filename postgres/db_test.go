package postgres_test

import (
	"context"

	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/postgres"
)

type testRow struct {
	ID   int64
	Name string
}

func (testRow) TableName() string { return "test_rows" }

func (suite *DBTestSuite) createTestTable() {
	err := suite.db.DB().Exec(`CREATE TABLE IF NOT EXISTS test_rows (id BIGSERIAL PRIMARY KEY, name TEXT UNIQUE)`).Error
	suite.Require().Nil(err)
}

func (suite *DBTestSuite) TestCreate() {
	suite.createTestTable()

	// Act
	row := &testRow{Name: "a"}
	err := suite.db.Create(row)

	// Assert
	suite.Require().Nil(err)
	suite.Require().NotZero(row.ID)

	suite.Require().ErrorIs(suite.db.Create(&testRow{Name: "a"}), golink.ErrExists)
	suite.Require().ErrorIs(suite.db.Create(testRow{Name: "b"}), golink.ErrUnaddressable)

	s := "just a string"
	suite.Require().ErrorIs(suite.db.Create(&s), golink.ErrMissingData)
}

func (suite *DBTestSuite) TestFirstAndFind() {
	suite.createTestTable()
	suite.Require().Nil(suite.db.Create(&testRow{Name: "a"}))

	var row testRow
	suite.Require().Nil(suite.db.Where("name = ?", "a").First(&row))
	suite.Require().Equal("a", row.Name)

	suite.Require().ErrorIs(suite.db.Where("name = ?", "z").First(&testRow{}), golink.ErrNotFound)

	var rows []testRow
	suite.Require().Nil(suite.db.Where("name = ?", "z").Find(&rows))
	suite.Require().Empty(rows)
}

func (suite *DBTestSuite) TestWhereArgs() {
	err := suite.db.Where("name = ? OR name = ?", "a", "b").First(&testRow{})
	suite.Require().ErrorIs(err, golink.ErrNotValid)

	err = suite.db.Limit(-1).Find(&[]testRow{})
	suite.Require().ErrorIs(err, golink.ErrNotValid)

	err = suite.db.Offset(-1).Find(&[]testRow{})
	suite.Require().ErrorIs(err, golink.ErrNotValid)
}

func (suite *DBTestSuite) TestUpdateAndDelete() {
	suite.createTestTable()
	row := &testRow{Name: "a"}
	suite.Require().Nil(suite.db.Create(row))

	suite.Require().Nil(suite.db.Model(&testRow{ID: row.ID}).Update(postgres.Updates{"name": "b"}))
	suite.Require().ErrorIs(suite.db.Model(&testRow{ID: row.ID}).Update(postgres.Updates{}), golink.ErrMissingData)
	suite.Require().ErrorIs(suite.db.Model(&testRow{ID: row.ID + 1}).Update(postgres.Updates{"name": "c"}), golink.ErrNotFound)

	suite.Require().Nil(suite.db.Delete(&testRow{ID: row.ID}))
	suite.Require().ErrorIs(suite.db.Delete(&testRow{ID: row.ID}), golink.ErrNotFound)
}

func (suite *DBTestSuite) TestTransactionRollsBack() {
	suite.createTestTable()

	err := suite.db.WithContext(context.Background()).Transaction(func(tx *postgres.DB) error {
		suite.Require().Nil(tx.Create(&testRow{Name: "a"}))
		return tx.Create(&testRow{Name: "a"})
	})
	suite.Require().ErrorIs(err, golink.ErrExists)

	n, err := suite.db.Model(new(testRow)).Count()
	suite.Require().Nil(err)
	suite.Require().Zero(n)
}
