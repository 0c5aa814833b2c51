// Package harness runs grid scenarios: small record sets plus one grid
// request, checked against an expected body or a golden file.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	date_format: "%d/%m/%Y"
//	schema:
//	  price: decimal
//	  added: date
//	records:
//	  - { id: 1, name: apple, price: "1.12", added: "20/01/2011" }
//	columns: [name, name.upcase, price, added]
//	request: { page: 1, rows: 10, sort: price, order: desc }
//	filters:
//	  - { column: price, value: ">=2" }
//	expect:
//	  records: 1
//	  skipped: [added]
//	  body: '{"page": 1, ...}'
//
// Schema kinds (string, int, float, decimal, date) convert YAML scalars
// into record values; date strings are read with date_format. Columns
// without a schema entry keep their YAML type.
//
// Filters turn on searching unless request.search says otherwise.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/toolbar_search.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
