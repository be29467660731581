package user

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/darasa/core"
)

var (
	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"

	pwdNoCommonTag  = "pwdnocommon"
	pwdNoCommonText = "password is too common"

	commonPasswords = []string{
		"12345678", "123456789", "1234567890", "baseball", "basketball",
		"iloveyou", "football", "jennifer", "password", "password1",
		"princess", "qwerty123", "qwertyuiop", "starwars", "sunshine",
		"superman", "trustno1", "welcome1", "whatever", "michelle",
	}
)

func init() {
	sort.Strings(commonPasswords)
}

// InitValidators registers the user struct-level validations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(userStructValidation, NewUser{})
	validate.RegisterStructValidation(userStructValidation, UpdateUser{})
	validate.RegisterStructValidation(userStructValidation, ChangePassword{})
	validate.RegisterStructValidation(userStructValidation, ResetUserPassword{})

	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(validate, translator, pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
	core.RegisterCustomTranslation(validate, translator, pwdNoCommonTag, pwdNoCommonText)
}

// userStructValidation applies the password policy to every struct that
// carries a (new) password.
func userStructValidation(sl validator.StructLevel) {
	switch obj := sl.Current().Interface().(type) {
	case NewUser:
		validatePassword(obj.Password, "password", sl, obj.Name, obj.Username, obj.Email)
	case UpdateUser:
		if obj.Password != "" {
			validatePassword(obj.Password, "password", sl, obj.Name, obj.Username, obj.Email)
		}
	case ChangePassword:
		validatePassword(obj.NewPassword, "new_password", sl)
	case ResetUserPassword:
		validatePassword(obj.Password, "password", sl)
	}
}

// validatePassword applies the password policy to provided password:
// - minLen: 8
// - no whitespace
// - not entirely numeric
// - no user attrs similarity
// - no common password
func validatePassword(pwd, field string, sl validator.StructLevel, usrAttrs ...string) {
	reportErr := func(tag string) {
		sl.ReportError(pwd, field, strings.Title(field), tag, "")
	}

	pwdLen := len(pwd)
	if pwdLen == 0 {
		return // `required` catches this with a clearer message
	}
	if pwdLen < pwdMinLen {
		reportErr(pwdMinLenTag)
		return
	}

	var digitCount int
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			reportErr(pwdNoSpaceTag)
			return
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
	}
	if digitCount == pwdLen {
		reportErr(pwdNotAllNumTag)
		return
	}

	getRatio := func(pass, attr string) float64 {
		if attr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(pass, ""), strings.Split(attr, "")).QuickRatio()
	}
	for _, attr := range usrAttrs {
		if getRatio(strings.ToLower(pwd), strings.ToLower(attr)) >= pwdMaxSim {
			reportErr(pwdAttrSimTag)
			return
		}
	}

	lpwd := strings.ToLower(pwd)
	if idx := sort.SearchStrings(commonPasswords, lpwd); idx < len(commonPasswords) {
		if match := commonPasswords[idx]; lpwd == match {
			reportErr(pwdNoCommonTag)
			return
		}
	}
}
