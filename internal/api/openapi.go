package api

// Minimal OpenAPI document served at /swagger.json.
const openAPISpec = `{
  "openapi": "3.0.0",
  "info": {
    "title": "Card Shop Inventory API",
    "version": "1.0.0"
  },
  "paths": {
    "/api/health": {
      "get": {
        "summary": "Health check",
        "responses": {
          "200": {"description": "Service is healthy", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/HealthResponse"}}}}
        }
      }
    },
    "/api/auth/login": {
      "post": {
        "summary": "Check the admin password",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/LoginRequest"}}}},
        "responses": {
          "200": {"description": "Password accepted"},
          "401": {"description": "Wrong password", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
        }
      }
    },
    "/api/search": {
      "get": {
        "summary": "Search the external card catalog",
        "parameters": [{"name": "q", "in": "query", "required": true, "schema": {"type": "string"}}],
        "responses": {
          "200": {"description": "Matching cards", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/CardRecord"}}}}},
          "400": {"description": "Missing q"},
          "500": {"description": "Catalog unavailable"}
        }
      }
    },
    "/api/search-bulk": {
      "post": {
        "summary": "Resolve a batch of card identifiers",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/BulkSearchRequest"}}}},
        "responses": {
          "200": {"description": "Resolved cards", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/CardRecord"}}}}},
          "400": {"description": "Invalid identifiers"},
          "500": {"description": "Catalog unavailable"}
        }
      }
    },
    "/api/inventory": {
      "get": {
        "summary": "List inventory, at most 100 rows",
        "parameters": [
          {"name": "q", "in": "query", "schema": {"type": "string"}},
          {"name": "type", "in": "query", "schema": {"type": "string"}},
          {"name": "category", "in": "query", "schema": {"type": "string"}},
          {"name": "min_price", "in": "query", "schema": {"type": "integer"}},
          {"name": "max_price", "in": "query", "schema": {"type": "integer"}},
          {"name": "sort", "in": "query", "schema": {"type": "string", "enum": ["price_asc", "price_desc"]}}
        ],
        "responses": {
          "200": {"description": "Inventory rows", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/InventoryItem"}}}}},
          "400": {"description": "Invalid price filter"}
        }
      },
      "post": {
        "summary": "Create an inventory row",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/InventoryItem"}}}},
        "responses": {
          "201": {"description": "Created row", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/InventoryItem"}}}},
          "400": {"description": "Missing or invalid card_name, price or stock"}
        }
      }
    },
    "/api/orders": {
      "get": {
        "summary": "List orders, newest first",
        "responses": {
          "200": {"description": "Orders", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/Order"}}}}}
        }
      },
      "post": {
        "summary": "Place an order",
        "parameters": [{"name": "Idempotency-Key", "in": "header", "schema": {"type": "string"}}],
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/PlaceOrderRequest"}}}},
        "responses": {
          "201": {"description": "Order placed", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Order"}}}},
          "400": {"description": "Invalid order, missing item or insufficient stock", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}},
          "409": {"description": "Duplicate Idempotency-Key"}
        }
      }
    },
    "/api/orders/{id}/status": {
      "patch": {
        "summary": "Set an order status",
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}],
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"type": "object", "properties": {"status": {"$ref": "#/components/schemas/OrderStatus"}}}}}},
        "responses": {
          "200": {"description": "Updated order", "content": {"application/json": {"schema": {"type": "object", "properties": {"success": {"type": "boolean"}, "order": {"$ref": "#/components/schemas/Order"}}}}}},
          "400": {"description": "Invalid status"},
          "404": {"description": "Order not found"}
        }
      }
    }
  },
  "components": {
    "schemas": {
      "HealthResponse": {"type": "object", "properties": {"status": {"type": "string"}}},
      "ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
      "LoginRequest": {"type": "object", "properties": {"password": {"type": "string"}}},
      "BulkSearchRequest": {
        "type": "object",
        "properties": {
          "identifiers": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "set": {"type": "string"},
                "collector_number": {"type": "string"}
              }
            }
          }
        }
      },
      "CardRecord": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "name": {"type": "string"},
          "set": {"type": "string"},
          "set_name": {"type": "string"},
          "collector_number": {"type": "string"},
          "lang": {"type": "string"},
          "rarity": {"type": "string"},
          "type_line": {"type": "string"},
          "foil": {"type": "boolean"},
          "nonfoil": {"type": "boolean"},
          "prices": {"type": "object", "additionalProperties": {"type": "string", "nullable": true}},
          "image_url": {"type": "string"}
        }
      },
      "InventoryItem": {
        "type": "object",
        "properties": {
          "id": {"type": "integer"},
          "scryfall_id": {"type": "string"},
          "card_name": {"type": "string"},
          "set_code": {"type": "string"},
          "collector_number": {"type": "string"},
          "price": {"type": "integer"},
          "stock": {"type": "integer"},
          "condition": {"type": "string"},
          "language": {"type": "string"},
          "is_foil": {"type": "boolean"},
          "image_url": {"type": "string", "nullable": true},
          "type": {"type": "string"},
          "category": {"type": "string", "nullable": true},
          "created_at": {"type": "string", "format": "date-time"}
        }
      },
      "OrderLine": {
        "type": "object",
        "properties": {
          "id": {"type": "integer"},
          "card_name": {"type": "string"},
          "quantity": {"type": "integer"}
        }
      },
      "OrderStatus": {"type": "string", "enum": ["PENDING", "IN_PROGRESS", "READY", "COMPLETED", "REJECTED"]},
      "PlaceOrderRequest": {
        "type": "object",
        "properties": {
          "customer_name": {"type": "string"},
          "contact_info": {"type": "string"},
          "items": {"type": "array", "items": {"$ref": "#/components/schemas/OrderLine"}},
          "total": {"type": "string", "format": "decimal"}
        }
      },
      "Order": {
        "type": "object",
        "properties": {
          "id": {"type": "integer"},
          "customer_name": {"type": "string"},
          "contact_info": {"type": "string"},
          "items": {"type": "array", "items": {"$ref": "#/components/schemas/OrderLine"}},
          "total": {"type": "string", "format": "decimal"},
          "status": {"$ref": "#/components/schemas/OrderStatus"},
          "created_at": {"type": "string", "format": "date-time"}
        }
      }
    }
  }
}`
