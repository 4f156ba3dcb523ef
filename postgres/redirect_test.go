package postgres_test

import (
	"context"
	"fmt"

	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/postgres"
	"github.com/xy-planning-network/golink/store"
)

var husserl = store.User{ExternalID: "ehusserl", Name: "Edmund Husserl"}

func (suite *DBTestSuite) TestRedirectStoreCreate() {
	// Arrange
	ctx := context.Background()
	rs := postgres.NewRedirectStore(suite.db)

	// Act
	r, err := rs.Create(ctx, "google", "https://duckduckgo.com/{?q=$1}", husserl)

	// Assert
	suite.Require().Nil(err)
	suite.Require().NotZero(r.ID)
	suite.Require().Len(r.PublicRef, store.PublicRefLen)
	suite.Require().Equal(husserl, r.CreatedBy)
	suite.Require().False(r.CreatedOn.IsZero())

	// Act
	_, err = rs.Create(ctx, "google", "https://google.com", husserl)

	// Assert
	suite.Require().ErrorIs(err, golink.ErrExists)

	// Act
	_, err = rs.Create(ctx, "anon", "https://google.com", store.User{})

	// Assert
	suite.Require().ErrorIs(err, golink.ErrMissingData)
}

func (suite *DBTestSuite) TestRedirectStoreGet() {
	// Arrange
	ctx := context.Background()
	rs := postgres.NewRedirectStore(suite.db)
	created, err := rs.Create(ctx, "go", "https://go.dev", husserl)
	suite.Require().Nil(err)

	// Act
	byAlias, err := rs.Get(ctx, "go")
	suite.Require().Nil(err)
	byRef, err := rs.Get(ctx, created.PublicRef)
	suite.Require().Nil(err)
	_, missingErr := rs.Get(ctx, "missing")

	// Assert
	suite.Require().Equal(created.PublicRef, byAlias.PublicRef)
	suite.Require().Equal(husserl, byAlias.CreatedBy)
	suite.Require().Equal("go", byRef.Alias)
	suite.Require().True(created.CreatedOn.Equal(byRef.CreatedOn))
	suite.Require().ErrorIs(missingErr, golink.ErrNotFound)
}

func (suite *DBTestSuite) TestRedirectStoreUpdate() {
	// Arrange
	ctx := context.Background()
	rs := postgres.NewRedirectStore(suite.db)
	created, err := rs.Create(ctx, "go", "https://go.dev", husserl)
	suite.Require().Nil(err)
	heidegger := store.User{ExternalID: "mheidegger", Name: "Martin Heidegger"}

	// Act
	updated, err := rs.Update(ctx, created.PublicRef, "https://pkg.go.dev/{search?q=$1}", heidegger)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal("https://pkg.go.dev/{search?q=$1}", updated.Destination)
	suite.Require().Equal(heidegger, updated.CreatedBy)

	actual, err := rs.Get(ctx, "go")
	suite.Require().Nil(err)
	suite.Require().Equal(updated.Destination, actual.Destination)
	suite.Require().Equal(heidegger, actual.CreatedBy)

	// Act
	_, err = rs.Update(ctx, "missing", "https://x.com", heidegger)

	// Assert
	suite.Require().ErrorIs(err, golink.ErrNotFound)
}

func (suite *DBTestSuite) TestRedirectStoreDelete() {
	// Arrange
	ctx := context.Background()
	rs := postgres.NewRedirectStore(suite.db)
	created, err := rs.Create(ctx, "go", "https://go.dev", husserl)
	suite.Require().Nil(err)
	suite.Require().Nil(rs.AddClick(ctx, "go"))

	// Act
	deleted, err := rs.Delete(ctx, "go")

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal(created.PublicRef, deleted.PublicRef)

	_, err = rs.Get(ctx, created.PublicRef)
	suite.Require().ErrorIs(err, golink.ErrNotFound)

	_, err = rs.Delete(ctx, "go")
	suite.Require().ErrorIs(err, golink.ErrNotFound)
}

func (suite *DBTestSuite) TestRedirectStoreList() {
	// Arrange
	ctx := context.Background()
	rs := postgres.NewRedirectStore(suite.db)
	for i := 0; i < 5; i++ {
		_, err := rs.Create(ctx, fmt.Sprintf("alias-%d", i), "https://x.com", husserl)
		suite.Require().Nil(err)
	}

	// Act
	first, err := rs.List(ctx, store.Page{Number: 0, Size: 2})
	suite.Require().Nil(err)
	last, err := rs.List(ctx, store.Page{Number: 2, Size: 2})
	suite.Require().Nil(err)
	past, err := rs.List(ctx, store.Page{Number: 7, Size: 2})
	suite.Require().Nil(err)

	// Assert
	suite.Require().EqualValues(5, first.Total)
	suite.Require().True(first.HasMore)
	suite.Require().Len(first.Records, 2)
	suite.Require().Equal("alias-0", first.Records[0].Alias)
	suite.Require().Equal(husserl, first.Records[0].CreatedBy)

	suite.Require().False(last.HasMore)
	suite.Require().Len(last.Records, 1)
	suite.Require().Equal("alias-4", last.Records[0].Alias)

	suite.Require().Empty(past.Records)
}

func (suite *DBTestSuite) TestRedirectStoreClicks() {
	// Arrange
	ctx := context.Background()
	rs := postgres.NewRedirectStore(suite.db)
	created, err := rs.Create(ctx, "go", "https://go.dev", husserl)
	suite.Require().Nil(err)

	// Act
	n, err := rs.Clicks(ctx, "go")
	suite.Require().Nil(err)
	suite.Require().Zero(n)

	suite.Require().Nil(rs.AddClick(ctx, "go"))
	suite.Require().Nil(rs.AddClick(ctx, created.PublicRef))

	// Assert
	n, err = rs.Clicks(ctx, "go")
	suite.Require().Nil(err)
	suite.Require().EqualValues(2, n)

	suite.Require().ErrorIs(rs.AddClick(ctx, "missing"), golink.ErrNotFound)
}
