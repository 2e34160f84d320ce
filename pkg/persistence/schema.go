package persistence

// graphSchema is the structural contract of the stored blob.
const graphSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["nodes", "edges"],
  "properties": {
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "position", "data"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "position": {
            "type": "object",
            "required": ["x", "y"],
            "properties": {
              "x": {"type": "number"},
              "y": {"type": "number"}
            }
          },
          "data": {
            "type": "object",
            "required": ["definitionId"],
            "properties": {
              "label": {"type": "string"},
              "definitionId": {"type": "string", "minLength": 1},
              "values": {
                "type": ["object", "null"],
                "additionalProperties": {"type": "string"}
              }
            }
          }
        }
      }
    },
    "edges": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "source", "target"],
        "properties": {
          "id": {"type": "string"},
          "source": {"type": "string"},
          "target": {"type": "string"}
        }
      }
    }
  }
}`
