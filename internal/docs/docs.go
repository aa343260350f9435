// Package docs serves the static API documentation content: quickstart
// code samples per language, example responses and install commands.
package docs

// Example is one runnable snippet.
type Example struct {
	Language string `json:"language"`
	Label    string `json:"label"`
	Code     string `json:"code"`
}

// Section groups the examples for one documentation topic.
type Section struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Install  string    `json:"install,omitempty"`
	Examples []Example `json:"examples"`
}

// AuthHeader is the header format every example authenticates with.
const AuthHeader = "Authorization: Bearer YOUR_API_KEY"

const curlGet = `curl -X GET "https://api.example.com/v1/data" \
  -H "Authorization: Bearer YOUR_API_KEY" \
  -H "Content-Type: application/json"`

const curlPost = `curl -X POST "https://api.example.com/v1/data" \
  -H "Authorization: Bearer YOUR_API_KEY" \
  -H "Content-Type: application/json" \
  -d '{
  "name": "Example Item",
  "description": "This is an example"
}'`

const javascriptExample = `const axios = require('axios');

const apiKey = 'YOUR_API_KEY';
const baseURL = 'https://api.example.com/v1';

const client = axios.create({
  baseURL,
  headers: {
    'Authorization': ` + "`Bearer ${apiKey}`" + `,
    'Content-Type': 'application/json'
  }
});

// Make a GET request
async function getData() {
  try {
    const response = await client.get('/data');
    console.log(response.data);
  } catch (error) {
    console.error('Error:', error.response?.data || error.message);
  }
}

// Make a POST request
async function createData(payload) {
  try {
    const response = await client.post('/data', payload);
    console.log('Created:', response.data);
  } catch (error) {
    console.error('Error:', error.response?.data || error.message);
  }
}

getData();`

const pythonExample = `import requests
import json

API_KEY = "YOUR_API_KEY"
BASE_URL = "https://api.example.com/v1"

headers = {
    "Authorization": f"Bearer {API_KEY}",
    "Content-Type": "application/json"
}

# Make a GET request
def get_data():
    try:
        response = requests.get(f"{BASE_URL}/data", headers=headers)
        response.raise_for_status()
        return response.json()
    except requests.exceptions.RequestException as e:
        print(f"Error: {e}")
        return None

# Make a POST request
def create_data(payload):
    try:
        response = requests.post(
            f"{BASE_URL}/data",
            headers=headers,
            json=payload
        )
        response.raise_for_status()
        return response.json()
    except requests.exceptions.RequestException as e:
        print(f"Error: {e}")
        return None

# Example usage
data = get_data()
if data:
    print(json.dumps(data, indent=2))`

const successResponse = `{
  "success": true,
  "data": {
    "id": "123",
    "name": "Example Item",
    "created_at": "2024-01-20T10:30:00Z"
  },
  "message": "Data retrieved successfully"
}`

const errorResponse = `{
  "success": false,
  "error": {
    "code": "INVALID_API_KEY",
    "message": "Invalid API key provided"
  },
  "message": "Authentication failed"
}`

var sections = []Section{
	{
		ID:    "curl",
		Title: "cURL",
		Examples: []Example{
			{Language: "bash", Label: "GET request", Code: curlGet},
			{Language: "bash", Label: "POST request", Code: curlPost},
		},
	},
	{
		ID:      "javascript",
		Title:   "JavaScript",
		Install: "npm install axios",
		Examples: []Example{
			{Language: "javascript", Label: "Client setup and requests", Code: javascriptExample},
		},
	},
	{
		ID:      "python",
		Title:   "Python",
		Install: "pip install requests",
		Examples: []Example{
			{Language: "python", Label: "Client setup and requests", Code: pythonExample},
		},
	},
	{
		ID:    "responses",
		Title: "Responses",
		Examples: []Example{
			{Language: "json", Label: "Success", Code: successResponse},
			{Language: "json", Label: "Error", Code: errorResponse},
		},
	},
}

// Sections returns the documentation in display order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// SectionByID returns one documentation section.
func SectionByID(id string) (Section, bool) {
	for _, s := range sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}
