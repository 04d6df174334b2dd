package eval_test

import (
	"testing"

	"github.com/paiml/ruchy-sub012/pkg/eval"
	. "github.com/paiml/ruchy-sub012/pkg/eval/evaltest"
)

var people = `let df = df![name => ["ann", "bob", "cy"], age => [31, 25, 40], team => ["a", "b", "a"]]`

func TestDataFrames(t *testing.T) {
	Test(t,
		That(people, "df.columns()").Evals(ListOf("name", "age", "team")),
		That(people, "df.rows()").Evals(3),
		That(people, "df.age").Evals(ListOf(31, 25, 40)),
		That(people, `df.select("name").columns()`).Evals(ListOf("name")),
		That(people, `df.filter(|r| r.age > 30).column("name")`).Evals(ListOf("ann", "cy")),
		That(people, `df.sort_by("age").column("name")`).Evals(ListOf("bob", "ann", "cy")),
		That(people, `df.sort_by("age", true).column("age")`).Evals(ListOf(40, 31, 25)),
		That(people, "df.head(2).rows()").Evals(2),
		That(people, "df.tail(1).column(\"name\")").Evals(ListOf("cy")),
		That(people, `df.agg("age", "max")`).Evals(40),
		That(people, `df.sum("age")`).Evals(96),
		That(people, `df.mean("age")`).Evals(32.0),
		That(people, `df.group_by("team").keys()`).Evals(ListOf("a", "b")),
		That(people, `df.with_column("older", |r| r.age + 1).column("older")`).Evals(ListOf(32, 26, 41)),
		That(people, `df.row(1)`).Evals(ObjectContainingPairs("name", "bob", "age", 25)),
		That(people, `df.drop("team").width()`).Evals(2),
		That(people,
			`let teams = df![team => ["a", "b"], lead => ["x", "y"]]`,
			`df.join(teams, "team").column("lead")`).Evals(ListOf("x", "y", "x")),
		That(`df![a => [1, 2], b => [1]]`).Throws(eval.TypeError),
		That(people, `df.column("nope")`).Throws(eval.UnknownField),
	)
}
