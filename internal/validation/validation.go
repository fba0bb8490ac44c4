// Package validation проверяет формы представлений до сетевых вызовов
// и собирает нарушения в карту «поле → сообщение».
//
// Имена полей берутся из тегов json, поэтому ключи карты совпадают
// с именами полей формы на клиенте.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/fitflow-web/internal/lib/dates"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
)

// FieldErrors нарушения валидации по полям формы.
type FieldErrors map[string]string

// Error объединяет нарушения в стабильную строку.
func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add записывает нарушение, если по полю его еще нет.
func (e FieldErrors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Validator обертка над go-playground/validator с правилами FitFlow.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

var (
	passwordUpper   = regexp.MustCompile(`[A-Z]`)
	passwordDigit   = regexp.MustCompile(`\d`)
	passwordSpecial = regexp.MustCompile(`[@$!%*?&]`)
	cedulaDigits    = regexp.MustCompile(`^\d{10}$`)
)

// New создает валидатор. now используется правилом not_past.
func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := &Validator{validate: validator.New(), now: now}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// ошибки регистрации возможны только при пустом теге
	_ = v.validate.RegisterValidation("cedula_ec", func(fl validator.FieldLevel) bool {
		return ValidCedula(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("iso_date", func(fl validator.FieldLevel) bool {
		_, err := dates.Parse(fl.Field().String())
		return err == nil
	})
	_ = v.validate.RegisterValidation("not_past", func(fl validator.FieldLevel) bool {
		return dates.NotBefore(fl.Field().String(), v.now())
	})
	_ = v.validate.RegisterValidation("meal_type", func(fl validator.FieldLevel) bool {
		return models.MealType(fl.Field().String()).Valid()
	})
	_ = v.validate.RegisterValidation("specialty", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, sp := range models.Specialties {
			if s == sp {
				return true
			}
		}
		return false
	})

	return v
}

// Struct проверяет структуру и возвращает nil, если нарушений нет.
func (v *Validator) Struct(s any) FieldErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"_": err.Error()}
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		out.Add(fieldKey(fe), message(fe))
	}
	return out
}

// fieldKey убирает имя корневой структуры из пространства имен поля,
// чтобы вложенные поля выглядели как meals[0].portion_size.
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "numeric":
		return "can contain only numbers"
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "iso_date":
		return "must be a date in format YYYY-MM-DD"
	case "not_past":
		return "must not be earlier than today"
	case "cedula_ec":
		return "is not a valid Ecuadorian cédula"
	case "strong_password":
		return "must have at least 8 characters, an uppercase letter, a digit and one of @$!%*?&"
	case "meal_type":
		return "must be one of: Desayuno Almuerzo Cena Snack"
	case "specialty":
		return "is not a known specialty"
	default:
		return "is not valid"
	}
}

// ValidCedula проверяет эквадорскую cédula: 10 цифр, код провинции 01–24,
// третья цифра меньше 6 и контрольная цифра по модулю 10.
func ValidCedula(cedula string) bool {
	if !cedulaDigits.MatchString(cedula) {
		return false
	}
	d := func(i int) int { return int(cedula[i] - '0') }

	province := d(0)*10 + d(1)
	if province < 1 || province > 24 {
		return false
	}
	if d(2) > 5 {
		return false
	}

	total := 0
	for i := 0; i < 9; i++ {
		n := d(i)
		if i%2 == 0 {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		total += n
	}
	check := 0
	if m := total % 10; m != 0 {
		check = 10 - m
	}
	return check == d(9)
}

// StrongPassword требует не меньше 8 символов, заглавную букву, цифру
// и один из символов @$!%*?&.
func StrongPassword(p string) bool {
	return len(p) >= 8 &&
		passwordUpper.MatchString(p) &&
		passwordDigit.MatchString(p) &&
		passwordSpecial.MatchString(p)
}
