package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawCatalogRecord_DecodesCatalogShape(t *testing.T) {
	body := `{"cars":[{"id":1,"car":"Mitsubishi","car_model":"Montero","car_color":"Yellow",
		"car_model_year":2002,"car_vin":"SAJWJ0FF3F8321657","price":"$2814.46","availability":false,
		"extra":"ignored"}]}`

	var list CatalogList
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list.Cars, 1)

	rec := list.Cars[0]
	assert.Equal(t, 1, rec.ID)
	assert.Equal(t, "Mitsubishi", rec.Make)
	assert.Equal(t, "Montero", rec.Model)
	assert.Equal(t, 2002, rec.ModelYear)
	assert.Equal(t, "Yellow", rec.Color)
	assert.Equal(t, "$2814.46", rec.Price)
}

func TestCatalogItem_MissingCar(t *testing.T) {
	var item CatalogItem
	require.NoError(t, json.Unmarshal([]byte(`{"message":"not found"}`), &item))
	assert.Nil(t, item.Car)
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseSortOrder("price-asc"))
	assert.Equal(t, SortPriceDesc, ParseSortOrder("price-desc"))
	assert.Equal(t, SortNone, ParseSortOrder(""))
	assert.Equal(t, SortNone, ParseSortOrder("name"))
}

func TestNewCurrentUser(t *testing.T) {
	assert.Equal(t, CurrentUser{Email: "asha@example.com", Name: "asha"}, NewCurrentUser("asha@example.com"))
	assert.Equal(t, CurrentUser{Email: "no-at-sign", Name: "no-at-sign"}, NewCurrentUser("no-at-sign"))
}

func TestAccount_JSONUsesPassKey(t *testing.T) {
	body, err := json.Marshal(Account{Name: "Asha", Email: "asha@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Asha","email":"asha@example.com","pass":"pw"}`, string(body))
}

func TestBookingID(t *testing.T) {
	at := time.UnixMilli(1717200000123)
	assert.Equal(t, "BK1717200000123", BookingID(at))
}
