package lang_test

import (
	"fmt"
	"strings"

	"github.com/ardnew/reportgen/lang"
)

func ExampleEvaluate() {
	params := lang.Params{
		"a": lang.NewInteger(3),
		"b": lang.NewInteger(9),
	}

	v, err := lang.Evaluate("IF(a > b, a, b) * 2", params)
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(v.Kind(), v)
	// Output: integer 18
}

func ExampleRender() {
	params := lang.Params{
		"CustomerName": lang.NewString("Acme Corp"),
		"Total":        lang.NewReal(123.456),
	}

	fmt.Println(lang.Render(
		"Dear {{ CustomerName }}, you owe {{ ROUND(Total, 2) }}. {{ unknownFn() }}",
		params,
	))
	// Output: Dear Acme Corp, you owe 123.46. {{ unknownFn() }}
}

func ExamplePlaceholders() {
	text := "x {{a}} y {{ b+1 }}"

	for span := range lang.Placeholders(text) {
		fmt.Printf("%d-%d %q\n", span.Start, span.End, span.Inner)
	}
	// Output:
	// 2-7 "a"
	// 10-19 "b+1"
}

func ExampleDecodeParams() {
	params, err := lang.DecodeParams(
		strings.NewReader(`{"Price": 19.99, "Qty": 3}`),
		lang.WithNumbers(lang.NumbersDecimal),
	)
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(lang.Render("{{ Price * Qty }}", params))
	// Output: 59.97
}

func ExampleParse() {
	e, err := lang.Parse("2 ** 3 ** 2 - -1")
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(e)
	// Output: ((2 ** (3 ** 2)) - (-1))
}
