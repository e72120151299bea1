package middleware

import (
	"regexp"
	"sync"

	"online-canteen-api/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Philippine mobile numbers: 09XXXXXXXXX or +639XXXXXXXXX
var contactNumberPattern = regexp.MustCompile(`^(09|\+639)\d{9}$`)

var registerOnce sync.Once

// RegisterValidators adds the canteen binding tags to gin's validator:
//
//	contact_number  a Philippine mobile number
//	shop_location   one of models.Locations()
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("contact_number", validContactNumber)
		_ = v.RegisterValidation("shop_location", validShopLocation)
	})
}

func validContactNumber(fl validator.FieldLevel) bool {
	return contactNumberPattern.MatchString(fl.Field().String())
}

func validShopLocation(fl validator.FieldLevel) bool {
	return models.ShopLocation(fl.Field().String()).Valid()
}
