package feedback

// JSON Schemas the generated score objects must satisfy before they are
// accepted. Sub-scores are bounded to the 0 to 5 range the evaluator
// prompts ask for.

const behavioralSchema = `{
  "type": "object",
  "required": ["relevance", "clarity", "depth", "examples", "communication", "overall", "summary"],
  "properties": {
    "relevance": {"type": "number", "minimum": 0, "maximum": 5},
    "clarity": {"type": "number", "minimum": 0, "maximum": 5},
    "depth": {"type": "number", "minimum": 0, "maximum": 5},
    "examples": {"type": "number", "minimum": 0, "maximum": 5},
    "communication": {"type": "number", "minimum": 0, "maximum": 5},
    "overall": {"type": "number", "minimum": 0, "maximum": 5},
    "summary": {"type": "string"}
  }
}`

const salesSchema = `{
  "type": "object",
  "required": ["sales_acumen", "communication", "problem_solving", "examples", "overall", "summary"],
  "properties": {
    "sales_acumen": {"type": "number", "minimum": 0, "maximum": 5},
    "communication": {"type": "number", "minimum": 0, "maximum": 5},
    "problem_solving": {"type": "number", "minimum": 0, "maximum": 5},
    "examples": {"type": "number", "minimum": 0, "maximum": 5},
    "overall": {"type": "number", "minimum": 0, "maximum": 5},
    "summary": {"type": "string"}
  }
}`

const codingSchema = `{
  "type": "object",
  "required": ["correctness", "clarity", "edge_cases", "efficiency", "overall", "summary"],
  "properties": {
    "correctness": {"type": "number", "minimum": 0, "maximum": 5},
    "clarity": {"type": "number", "minimum": 0, "maximum": 5},
    "edge_cases": {"type": "number", "minimum": 0, "maximum": 5},
    "efficiency": {"type": "number", "minimum": 0, "maximum": 5},
    "overall": {"type": "number", "minimum": 0, "maximum": 5},
    "summary": {"type": "string"}
  }
}`
